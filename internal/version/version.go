// ABOUTME: Product identity and version constants
// ABOUTME: Reported in the session handshake and CLI output
package version

const (
	// Product is the product name.
	Product = "Talkwire"

	// Manufacturer identifies the project.
	Manufacturer = "Talkwire Project"

	// Version is the software version.
	Version = "0.1.0"
)
