package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"contractorbill/collections"
	"contractorbill/commands"
	"contractorbill/config"
	"contractorbill/handlers"
	"contractorbill/logging"
	"contractorbill/services"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Sync()

	app := pocketbase.New()

	store := collections.NewRecordStore(app)
	exporter := services.NewExporter(store, services.WithLogger(logger.Named("export")))
	history := exporter.History()
	drafts := services.NewDraftService(store, logger.Named("drafts"))

	app.RootCmd.AddCommand(commands.NewExportCommand(app, logger.Named("cli")))

	// Create collections on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return err
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		httpLog := logger.Named("http")

		// ── Bills ────────────────────────────────────────────────
		se.Router.POST("/api/bills/parse", handlers.HandleBillParse(cfg.MaxUploadBytes(), httpLog))
		se.Router.POST("/api/bills/export/{format}", handlers.HandleBillExport(exporter, httpLog))
		se.Router.POST("/api/bills/batch", handlers.HandleBatchExport(exporter, httpLog))

		// ── History ──────────────────────────────────────────────
		se.Router.GET("/api/history", handlers.HandleHistoryList(history, httpLog))
		se.Router.DELETE("/api/history", handlers.HandleHistoryClear(history, httpLog))

		// ── Drafts ───────────────────────────────────────────────
		se.Router.GET("/api/drafts", handlers.HandleDraftList(drafts, httpLog))
		se.Router.POST("/api/drafts", handlers.HandleDraftSave(drafts, httpLog))
		se.Router.GET("/api/drafts/{id}", handlers.HandleDraftGet(drafts, httpLog))
		se.Router.DELETE("/api/drafts/{id}", handlers.HandleDraftDelete(drafts, httpLog))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("app stopped", zap.Error(err))
	}
}
