package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-recurring/internal/handlers/v1/recurring"
	"github.com/carson-networks/budget-recurring/internal/handlers/v1/status"
	"github.com/carson-networks/budget-recurring/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/scheduler"
	"github.com/carson-networks/budget-recurring/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Rest struct {
	Logger    *logrus.Logger
	Port      string
	Service   *service.Service
	Scheduler *scheduler.Scheduler
}

// Handler builds the router with every v1 endpoint registered.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("Budget Recurring API", "1.0.0"))

	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)
	transaction.NewDeleteTransactionHandler(r.Service.Transaction).Register(api)

	recurring.NewCreateSeriesHandler(r.Service.Recurring).Register(api)
	recurring.NewGetSeriesHandler(r.Service.Recurring).Register(api)
	recurring.NewUpdateSeriesHandler(r.Service.Recurring).Register(api)
	recurring.NewCancelSeriesHandler(r.Service.Recurring).Register(api)
	recurring.NewSweepHandler(r.Scheduler).Register(api)

	statusHandler := status.NewHandler(r.Scheduler)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	return logging.Middleware("Api", r.Logger, mux)
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
