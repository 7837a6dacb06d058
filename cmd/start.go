package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ddn-storage/core/database"
	"ddn-storage/core/loader"
	"ddn-storage/core/logger"
	"ddn-storage/core/middleware/auth"
	"ddn-storage/core/middleware/rayid"
	"ddn-storage/core/server"
	"ddn-storage/core/storage"
	"ddn-storage/feature/inspect"
	"ddn-storage/feature/journal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the storage client over HTTP",
	Long:  `Builds the storage client, opens the optional transfer journal and starts the HTTP control surface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration and logger
		cfg, logg, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logg.Sync()

		// 2. Journal database (optional)
		var db *gorm.DB
		var observers []storage.Observer
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional journal database connection failed", zap.Error(err))
			} else {
				repo := journal.NewRepository(conn)
				if err := repo.Migrate(); err != nil {
					logg.Warn("Journal migration failed, journal disabled", zap.Error(err))
				} else {
					db = conn
					observers = append(observers, journal.NewObserver(repo, logg))
					logg.Info("Connected to journal database")
				}
			}
		}

		// 3. Storage client
		client, err := newStorageClient(cfg, logg, observers...)
		if err != nil {
			return err
		}
		defer client.Cleanup()

		// 4. Features
		mgr := loader.NewManager(logg)
		mgr.Register(inspect.NewFeature(client, logg))
		mgr.Register(journal.NewFeature(db, logg))

		app, err := newServer(cfg.Server, logg, mgr)
		if err != nil {
			return err
		}

		// 5. Serve until signalled
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sig:
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

// newServer builds the Fiber app with the middleware chain and loads the
// registered features.
func newServer(cfg server.Config, logg *zap.Logger, mgr *loader.Manager) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
	})

	// A panicking handler must not take the process down
	app.Use(recover.New())
	// RayID next so every log line, including rejected requests, is traceable
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})
	if !cfg.IsProtected() {
		logg.Warn("API key not set, HTTP surface is unauthenticated")
	}
	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))

	if _, err := mgr.LoadAll(app); err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}
	return app, nil
}

func init() {
	RootCmd.AddCommand(startCmd)
}
