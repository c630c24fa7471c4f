package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/budget-recurring/api"
	"github.com/carson-networks/budget-recurring/internal/config"
	"github.com/carson-networks/budget-recurring/internal/logging"
	"github.com/carson-networks/budget-recurring/internal/operator"
	"github.com/carson-networks/budget-recurring/internal/recurrence"
	"github.com/carson-networks/budget-recurring/internal/scheduler"
	"github.com/carson-networks/budget-recurring/internal/service"
	"github.com/carson-networks/budget-recurring/internal/storage"
)

func main() {
	app := &cli.App{
		Name:  "budget-recurring",
		Usage: "recurring transaction engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file",
				EnvVars: []string{"BUDGET_CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the background scheduler",
				Action: serve,
			},
			{
				Name:  "sweep",
				Usage: "generate every occurrence due as of a day, then exit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "sweep as of YYYY-MM-DD instead of today"},
					&cli.BoolFlag{Name: "dump", Usage: "print the full sweep report"},
				},
				Action: sweep,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("budget-recurring")
	}
}

// engine holds everything built from config that the commands share.
type engine struct {
	cfg       *config.Config
	logger    *logrus.Logger
	storage   *storage.Storage
	delegator *operator.OperatorDelegator
	scheduler *scheduler.Scheduler
	service   *service.Service
}

func setup(c *cli.Context) (*engine, error) {
	cfg, err := config.ProcessEnvironmentVariables(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	logger := logging.SetupLogging(cfg.LogLevel)

	store, err := storage.Open(c.Context, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage.Open: %w", err)
	}
	if err := store.Migrate(logger); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("storage.Migrate: %w", err)
	}

	delegator := operator.NewOperatorDelegator(store, cfg.OperatorWorkers, logger)
	delegator.Start()

	sched := scheduler.New(store, delegator, logger, cfg.SweepInterval)
	normalizer := recurrence.NewNormalizer(cfg.TimezoneOffsetHours)

	return &engine{
		cfg:       cfg,
		logger:    logger,
		storage:   store,
		delegator: delegator,
		scheduler: sched,
		service:   service.NewService(store, delegator, normalizer, sched),
	}, nil
}

func (e *engine) close() {
	e.delegator.Stop()
	if err := e.storage.Close(); err != nil {
		e.logger.WithError(err).Warn("Storage.Close")
	}
}

func serve(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.close()
	e.logger.Info("budget-recurring starting")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.scheduler.Start(ctx)
	}()

	httpRest := api.Rest{
		Logger:    e.logger,
		Port:      e.cfg.HTTPPort,
		Service:   e.service,
		Scheduler: e.scheduler,
	}
	err = httpRest.Serve(ctx)
	stop()
	wg.Wait()
	return err
}

func sweep(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.close()

	now := time.Now()
	if raw := c.String("date"); raw != "" {
		now, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
	}

	report := e.scheduler.Run(c.Context, now)
	if c.Bool("dump") {
		spew.Fdump(c.App.Writer, report)
	}
	if report.Failed > 0 {
		return cli.Exit(fmt.Sprintf("sweep finished with %d failed anchors", report.Failed), 1)
	}
	return nil
}

func migrate(c *cli.Context) error {
	cfg, err := config.ProcessEnvironmentVariables(c.String("config"))
	if err != nil {
		return fmt.Errorf("config.ProcessEnvironmentVariables: %w", err)
	}
	logger := logging.SetupLogging(cfg.LogLevel)

	store, err := storage.Open(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("storage.Open: %w", err)
	}
	defer store.Close()

	return store.Migrate(logger)
}
