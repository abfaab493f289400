package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kitefall/pulse-backend/internal/app"
)

func main() {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	a.Log.Info("Starting HTTP server", "addr", a.Cfg.HTTPAddr)
	if err := a.Run(a.Cfg.HTTPAddr); err != nil {
		a.Log.Error("HTTP server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
}
