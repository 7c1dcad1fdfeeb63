package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/docqa-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(ctx)

	a.Log.Info("Starting server", "port", a.Cfg.Port)
	if err := a.Run(); err != nil {
		a.Log.Error("Server exited", "error", err)
		a.Close(ctx)
		os.Exit(1)
	}
}
