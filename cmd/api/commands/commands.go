package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsau/apiserver/internal/application/services"
	"github.com/jsau/apiserver/internal/domain/entities"
	"github.com/jsau/apiserver/internal/infrastructure/config"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
	"github.com/jsau/apiserver/internal/infrastructure/server"
	"github.com/jsau/apiserver/internal/infrastructure/storage"
	"github.com/jsau/apiserver/internal/ports"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.App.VersionString())
			return nil
		},
	}
}

// NewFavoritesCommand creates the favorites management command. The
// subcommands go through the same service as the HTTP handlers.
func NewFavoritesCommand() *cobra.Command {
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "Favorites management commands",
		Long:  "List, add and remove favorites in the configured store",
	}

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavoriteService(func(svc *services.FavoriteService) error {
				favorites, err := svc.ListFavorites(cmd.Context())
				if errors.Is(err, entities.ErrNoFavorites) {
					fmt.Fprintln(cmd.OutOrStdout(), "No favorites found.")
					return nil
				}
				if err != nil {
					return err
				}
				for _, f := range favorites {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", f.ID, f.RecetteFile)
				}
				return nil
			})
		},
	})

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "add <recetteFile>",
		Short: "Add a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavoriteService(func(svc *services.FavoriteService) error {
				favorite, err := svc.AddFavorite(cmd.Context(), ports.AddFavoriteRequest{RecetteFile: args[0]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Favorite added: %d\t%s\n", favorite.ID, favorite.RecetteFile)
				return nil
			})
		},
	})

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "remove <recetteFile>",
		Short: "Remove a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFavoriteService(func(svc *services.FavoriteService) error {
				favorite, err := svc.RemoveFavorite(cmd.Context(), ports.RemoveFavoriteRequest{Filename: args[0]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Favorite removed: %d\t%s\n", favorite.ID, favorite.RecetteFile)
				return nil
			})
		},
	})

	return favoritesCmd
}

func withFavoriteService(fn func(svc *services.FavoriteService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger := logger.NewNop()

	stores, err := storage.Open(cfg.Storage, appLogger)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer stores.Close()

	return fn(services.NewFavoriteService(stores.Favorites, stores.Documents, nil, appLogger))
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	stores, err := storage.Open(cfg.Storage, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to open stores", "error", err)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			appLogger.Errorw("Failed to close stores", "error", err)
		}
	}()

	srv, err := server.New(cfg, stores, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"favorites_backend", stores.Backend(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Errorw("Server failed", "error", err)
		}
		return
	case sig := <-quit:
		appLogger.Infow("Received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
	}
}
