package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lecture-manager/internal/api/router"
	"lecture-manager/internal/config"
	"lecture-manager/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	port        string
	autoMigrate bool
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long: `Start the lecture management HTTP server.
Registration, statistics and catalog endpoints are served under /api/v1;
/health, /ready, /live and /metrics stay unauthenticated.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVarP(&port, "port", "p", "", "Port for the server to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Apply pending migrations on startup")
}

func startServer() {
	cfg := config.Get()
	if port != "" {
		cfg.Server.Port = port
	}
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := newApplication(context.Background(), cfg, autoMigrate)
	if err != nil {
		logger.Error("Failed to start: %v", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:        router.NewRouter(app.deps),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Starting %s on %s (store: %s)", cfg.App.Name, srv.Addr, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
