// ABOUTME: High-level Talkwire library API
// ABOUTME: Provides a simple Session API for embedding the voice client
// Package talkwire provides a high-level API for duplex voice sessions.
//
// This is the main entry point for library users. A Session captures
// microphone audio, streams it to a Talkwire service, and plays the
// service's audio replies with interruption on local speech.
//
// Example:
//
//	session, err := talkwire.NewSession(talkwire.Config{
//	    ServerAddr: "localhost:8930",
//	    Name:       "Living Room",
//	})
//	err = session.Connect()
//	defer session.Close()
//
// For lower-level control over encoding and scheduling, see the
// pkg/audio packages.
package talkwire
