package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"steamledger/internal/controllers"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/services"
	"steamledger/internal/structures"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	job       services.JobServiceInterface
	uploader  services.SyncServiceInterface
	scheduler services.SchedulerInterface
}

func NewApp(healthController *controllers.HealthController, job services.JobServiceInterface, uploader services.SyncServiceInterface, scheduler services.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes
	routes := router.GetRoutes()
	apiMux := http.NewServeMux()
	for _, route := range routes {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, routes, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", metrics.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		job:       job,
		uploader:  uploader,
		scheduler: scheduler,
	}
}

// Execute dispatches a CLI command. The returned error means the process
// should exit non-zero.
func (a *App) Execute(ctx context.Context, command string) error {
	switch command {
	case "", structures.CommandRun:
		report, err := a.RunOnce(ctx)
		if err != nil {
			a.logger.Errorf(providers.TypeApp, "Run aborted: %s", err)
			return err
		}
		if !report.OwnedCaptured || report.Sync.Failed > 0 {
			a.logger.Warnf(providers.TypeApp, "Run %s finished partially", report.RunDate)
		}
		return nil
	case structures.CommandUploadAll:
		if _, err := a.UploadAll(ctx); err != nil {
			a.logger.Errorf(providers.TypeApp, "Recovery upload aborted: %s", err)
			return err
		}
		return nil
	case structures.CommandServe:
		if err := a.Serve(); err != nil {
			a.logger.Errorf(providers.TypeApp, "Daemon stopped: %s", err)
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// RunOnce executes a single pass. Only store failures are returned;
// partial runs are reported in the log.
func (a *App) RunOnce(ctx context.Context) (*models.RunReport, error) {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	return a.job.Run(ctx)
}

// UploadAll re-sends every persisted activity batch.
func (a *App) UploadAll(ctx context.Context) (models.SyncReport, error) {
	a.logger.Infof(providers.TypeApp, "Starting %s in recovery mode", a.conf.AppName)
	return a.uploader.UploadAll(ctx)
}

// Serve runs the scheduler and HTTP surface until SIGINT or SIGTERM.
func (a *App) Serve() error {
	a.logger.Infof(providers.TypeApp, "Starting %s in daemon mode", a.conf.AppName)
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
