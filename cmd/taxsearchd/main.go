package main

import (
	"context"
	"os"
	"strconv"

	"nhctax-backend/lib/serviceutil"
	"nhctax-backend/lib/telemetry"
	"nhctax-backend/services/taxsearch"

	"github.com/joho/godotenv"
)

func main() {
	// missing .env is fine, the environment itself still applies
	godotenv.Load()

	telemetry.InitSlog(os.Getenv("DEBUG") != "")

	ctx := serviceutil.SignalContext()

	tel, err := telemetry.Setup(ctx, "taxsearchd", telemetry.ConfigFromEnv())
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	service, err := taxsearch.NewService(taxsearch.ConfigFromEnv())
	if err != nil {
		serviceutil.Fatal("failed to initialize search service", err)
	}

	port := 8000
	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		port = v
	}

	go serviceutil.StartHttpServer(port, newRouter(service))

	<-ctx.Done()
}
