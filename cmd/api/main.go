package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"studyMate/internal/app"
	"studyMate/internal/config"
	"studyMate/internal/credential"
	"syscall"
)

func main() {
	configPath := flag.String("config", os.Getenv("STUDYMATE_CONFIG"), "путь к config.yml")
	flag.Parse()

	cfg, err := config.Load(*configPath, credential.NewLazy(nil), credential.GeminiAPIKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "конфигурация:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "инициализация:", err)
		os.Exit(1)
	}
	defer a.Shutdown()

	if err := a.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		a.Shutdown()
		os.Exit(1)
	}
}
