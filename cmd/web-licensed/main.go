// Command web-licensed runs the license HTTP server with configuration from
// the environment and config.yaml.
package main

import (
	"log/slog"
	"os"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
