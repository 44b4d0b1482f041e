package main

import (
	"context"
	"log/slog"
	"time"

	"cmoa-notion-sync/cmd/cmoa-cli/commands"
	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/lib/serviceutil"
)

func main() {
	telemetry.InitSlog(true)

	ctx := serviceutil.SignalContext()
	otel, err := telemetry.SetupFromEnv(ctx, "cmoa-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err = otel.Shutdown(shutdownCtx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}
