package cli

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"secsentry/internal/auth"
	"secsentry/internal/events"
	"secsentry/internal/server"
	"secsentry/internal/store"
	"secsentry/internal/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog, err := buildCatalog(cfg)
		if err != nil {
			return err
		}
		log.Printf("✅ Knowledge base loaded: %d domains", catalog.Len())

		provider, err := buildProvider(cfg)
		if err != nil {
			return err
		}

		app := &server.App{
			Config:    cfg,
			Sessions:  server.NewSessionManager(catalog, provider, cfg.FirstQuestion),
			WSManager: websocket.NewManager(),
		}

		if cfg.Store.Enable {
			archive, err := store.NewArchive(cfg.Store, provider)
			if err != nil {
				return err
			}
			app.Archive = archive
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Events.Enable {
			producer := events.NewProducer(events.ProducerConfig{
				Brokers: cfg.Events.Brokers,
				Topic:   cfg.Events.Topic,
			})
			if err := producer.Connect(ctx); err != nil {
				log.Printf("⚠️  Kafka unavailable, events disabled: %v", err)
			} else {
				log.Printf("✅ Kafka event producer connected (topic: %s)", cfg.Events.Topic)
				app.Events = producer
				defer producer.Close()
			}
		}

		if cfg.Auth.Enable {
			app.Auth = auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.SessionKey)
			log.Printf("🔒 API authentication enabled")
		}

		return server.Start(ctx, app)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
