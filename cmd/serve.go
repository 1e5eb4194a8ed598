package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agenda-backend/config"
	"agenda-backend/controllers"
	"agenda-backend/middleware"
	"agenda-backend/routes"
	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the retention scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := connect(migrate); err != nil {
				return err
			}
			logger := utils.GetLogger()
			defer logger.Sync()

			if config.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			var cache services.TemplateCache
			client, err := utils.NewCacheClient(ctx)
			switch {
			case err != nil:
				logger.Warn("redis unavailable, template cache disabled", zap.Error(err))
			case client != nil:
				defer client.Close()
				cache = services.NewRedisTemplateCache(client, utils.CacheTTL())
			}

			tokens, err := utils.CancelTokensFromConfig()
			if err != nil {
				return err
			}

			ctl := controllers.New(config.DB, cache, tokens)
			retention := services.NewRetentionService(ctl.Ledger, config.AppConfig.BookingRetentionDays)
			if err := retention.StartScheduler(); err != nil {
				return err
			}
			defer retention.Stop()

			limiter := middleware.NewRateLimiter(config.AppConfig.MaxRequestsPerMin)
			srv := &http.Server{
				Addr:              ":" + config.AppConfig.AppPort,
				Handler:           routes.SetupRouter(ctl, limiter),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancelShutdown()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations on startup")
	return cmd
}
