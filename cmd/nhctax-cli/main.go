package main

import (
	"context"

	"nhctax-backend/cmd/nhctax-cli/commands"
	"nhctax-backend/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	telemetry.InitSlog(false)
	telemetry.Setup(context.Background(), "nhctax-cli", telemetry.ConfigFromEnv())
	commands.ExecuteContext(context.Background())
}
