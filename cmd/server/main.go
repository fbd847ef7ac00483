package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakturly/billing-engine/internal/api"
	"github.com/fakturly/billing-engine/internal/assemble"
	"github.com/fakturly/billing-engine/internal/assets"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	port := getPort()

	fetcher := assets.NewFetcher(getAssetTimeout())
	assembler := assemble.New(fetcher)
	server := api.NewServer(assembler)

	serverErrChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", port)
		log.Printf("billing-engine %s listening on %s", Version, addr)
		if err := server.Run(addr); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received %v, shutting down", sig)
	}
}

func getPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}

	for i, arg := range os.Args {
		if arg == "--port" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}

	return "12310"
}

func getAssetTimeout() time.Duration {
	if v := os.Getenv("ASSET_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Warning: invalid ASSET_TIMEOUT %q, using default", v)
	}
	return assets.DefaultTimeout
}
