// ABOUTME: Entry point for the Talkwire voice client
// ABOUTME: Parses CLI flags and starts the duplex audio session
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Talkwire-Protocol/talkwire-go/internal/app"
	"github.com/Talkwire-Protocol/talkwire-go/internal/config"
	"github.com/Talkwire-Protocol/talkwire-go/internal/metrics"
	"github.com/Talkwire-Protocol/talkwire-go/internal/ui"
	"github.com/joho/godotenv"
)

var (
	configPath = flag.String("config", "", "Path to YAML config file")
	serverAddr = flag.String("server", "", "Service address (overrides config)")
	name       = flag.String("name", "", "Session friendly name (default: hostname-talkwire)")
	logFile    = flag.String("log-file", "talkwire.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	// Local .env files carry the service address during development
	_ = godotenv.Load()

	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !useTUI {
		log.Printf("Starting Talkwire session: %s", cfg.Session.Name)
		log.Printf("TUI disabled - logging to file for debugging")
	}

	// Metrics endpoint
	var met *metrics.Metrics
	if cfg.Metrics.Enabled {
		met = metrics.New()
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	session := app.New(cfg, nil, met)

	// TUI setup
	var tuiDone chan struct{}
	if useTUI {
		prog := ui.Run()
		session.OnStatus = func(st app.Status) {
			prog.Send(ui.StatusMsg{
				Connected:  st.Connected,
				ServerAddr: st.ServerAddr,
				State:      st.State,
				Sounding:   st.Sounding,
				Level:      st.Level,
				Encoded:    st.Encoded,
				Received:   st.Received,
				Dropped:    st.Dropped,
				Rebuffers:  st.Rebuffers,
				BargeIns:   st.BargeIns,
			})
		}
		tuiDone = make(chan struct{})
		go func() {
			if _, err := prog.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			close(tuiDone)
		}()
	}

	if err := session.Start(); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	log.Printf("Connected to service: %s", cfg.Session.ServerAddr)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for quit signal from TUI or OS
	if tuiDone != nil {
		select {
		case <-tuiDone:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	session.Stop()
	log.Printf("Session stopped")
}

// loadConfig assembles the effective config from the YAML file, the
// environment and the CLI flags, in increasing precedence.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if addr := os.Getenv("TALKWIRE_SERVER"); addr != "" {
		cfg.Session.ServerAddr = addr
	}
	if *serverAddr != "" {
		cfg.Session.ServerAddr = *serverAddr
	}
	if cfg.Session.ServerAddr == "" {
		return nil, fmt.Errorf("no service address: set -server, TALKWIRE_SERVER or session.server_addr")
	}

	if *name != "" {
		cfg.Session.Name = *name
	}
	if cfg.Session.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		cfg.Session.Name = fmt.Sprintf("%s-talkwire", hostname)
	}

	return cfg, cfg.Validate()
}
