package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/config"
	"github.com/ziadkadry99/storyshelf/internal/screens"
	"github.com/ziadkadry99/storyshelf/internal/server"
	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

var (
	servePort int
	serveWarm bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the StoryShelf web server",
	Long: `Starts the web server: server-rendered pages, screen fragments, the JSON API
and live tabs over WebSocket. Without Supabase credentials the site still
navigates and shows a notice until a backend is connected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		client := newBackendClient(cfg, logger)

		loader := screens.NewLoader(screens.NewFetcher(cfg.ScreensBase), cfg.CacheEnabled, logger)
		if serveWarm {
			warmScreens(cmd.Context(), loader, cfg, logger)
		}

		events := auth.NewEvents()
		bridge := auth.NewBridge(client, auth.NewSessionStore(), events, logger)

		srv := server.New(server.Config{
			Port:        cfg.Server.Port,
			AllowAll:    cfg.Server.AllowAllOrigins,
			Home:        cfg.DefaultPage,
			ContainerID: cfg.ContainerID,
			Worksheets:  cfg.Worksheets.Storage(),
			Shelf:       cfg.Flipbook.Books,
		}, loader, bridge, events, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "storyshelf v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Screens: %s (cache %v)\n", cfg.ScreensBase, cfg.CacheEnabled)
		if client != nil {
			fmt.Fprintf(os.Stderr, "  Backend: %s\n", client.URL())
		} else {
			fmt.Fprintf(os.Stderr, "  Backend: not connected\n")
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// newBackendClient connects to the configured backend, filling gaps from the
// saved credentials. It returns nil when no backend is configured.
func newBackendClient(cfg *config.Config, logger *log.Logger) *supabase.Client {
	credPath, err := auth.CredentialPath()
	if err == nil {
		cfg.Backend.URL, cfg.Backend.AnonKey = auth.ResolveBackend(cfg.Backend.URL, cfg.Backend.AnonKey, credPath)
	}
	if !cfg.Backend.Configured() {
		logger.Warn(server.MsgBackendMissing)
		return nil
	}
	if cfg.Backend.Insecure() {
		logger.Warn("backend URL is not HTTPS; credentials travel in clear text", "url", cfg.Backend.URL)
	}

	client, err := supabase.New(supabase.Config{
		URL:     cfg.Backend.URL,
		AnonKey: cfg.Backend.AnonKey,
		Timeout: cfg.Backend.Timeout(),
	})
	if err != nil {
		logger.Error("connecting backend", "err", err)
		return nil
	}
	return client
}

// warmScreens preloads every fragment of a local screens directory.
func warmScreens(ctx context.Context, loader *screens.Loader, cfg *config.Config, logger *log.Logger) {
	if !cfg.CacheEnabled {
		logger.Warn("--warm has no effect with the fragment cache disabled")
		return
	}
	fsys, ok := screensFS(cfg.ScreensBase)
	if !ok {
		logger.Warn("--warm needs a local screens directory", "screens_base", cfg.ScreensBase)
		return
	}
	ids, err := screens.Discover(fsys, screens.DefaultPattern)
	if err != nil {
		logger.Error("discovering screens", "err", err)
		return
	}
	if err := loader.Warm(ctx, ids, 4); err != nil {
		logger.Error("warming screens", "err", err)
		return
	}
	logger.Info("screens warmed", "count", len(ids))
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveWarm, "warm", false, "Preload every screen fragment before serving")
	rootCmd.AddCommand(serveCmd)
}
