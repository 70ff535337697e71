package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"payment-operations-console/internal/apiclient"
	"payment-operations-console/internal/config"
	"payment-operations-console/internal/localstate"
	"payment-operations-console/internal/metrics"
	"payment-operations-console/internal/models"
	"payment-operations-console/internal/notify"
	"payment-operations-console/internal/poller"
	"payment-operations-console/internal/progress"
	"payment-operations-console/internal/routes"
	"payment-operations-console/internal/store"
)

func main() {
	cfg := config.Load()
	logger := config.GetLogger()

	state, err := localstate.Open(cfg.LocalStatePath)
	if err != nil {
		logger.WithError(err).Fatal("opening local state store")
	}

	client := apiclient.New(apiclient.Config{
		BaseURL:  cfg.GatewayBaseURL,
		Tokens:   state,
		Timeout:  cfg.RequestTimeout,
		Logger:   logger,
		NoLogout: cfg.NoLogout,
		OnLogout: func() {
			logger.Warn("session expired, tokens cleared")
		},
		Observer: metrics.ObserveUpstream,
	})

	hub := notify.NewHub(logger)
	settlementStore := store.New(client.Settlements(), hub, state, logger)
	runner := progress.NewRunner(0, logger)

	p := poller.New(logger, metrics.ObservePoll)
	registerPollers(p, cfg, client, settlementStore, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, client, settlementStore, runner, hub)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	p.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	p.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}

// registerPollers wires the background refreshes: the dashboard widgets, the
// pending-refund gauge, and the failed-delivery gauge.
func registerPollers(p *poller.Poller, cfg config.Config, client *apiclient.Client, st *store.SettlementStore, logger *logrus.Logger) {
	p.Add("dashboard", cfg.DashboardPollInterval, func(ctx context.Context) error {
		if err := st.FetchStatistics(ctx, models.BatchFilter{}); err != nil {
			return err
		}
		if err := st.FetchActivities(ctx, 0); err != nil {
			return err
		}
		return st.FetchCycleDistribution(ctx)
	})

	p.Add("refunds", cfg.RefundPollInterval, func(ctx context.Context) error {
		list, err := client.Refunds().List(ctx, models.RefundFilter{Status: models.RefundPending})
		if err != nil {
			return err
		}
		metrics.PendingRefunds.Set(float64(list.Count))
		return nil
	})

	p.Add("webhook-deliveries", cfg.WebhookPollInterval, func(ctx context.Context) error {
		endpoints, err := client.Webhooks().List(ctx)
		if err != nil {
			return err
		}
		failed := 0
		for _, ep := range endpoints.Results {
			deliveries, err := client.Webhooks().Deliveries(ctx, ep.WebhookID)
			if err != nil {
				logger.WithError(err).WithField("webhook", ep.WebhookID).Debug("delivery poll failed")
				continue
			}
			for _, d := range deliveries.Results {
				if d.Status == models.DeliveryFailed {
					failed++
				}
			}
		}
		metrics.FailedWebhookDeliveries.Set(float64(failed))
		return nil
	})
}
