// Package worker runs the lifecycle sweeps and consumes notification events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orris-inc/saasportal/internal/infrastructure/database"
	"github.com/orris-inc/saasportal/internal/infrastructure/pubsub"
	"github.com/orris-inc/saasportal/internal/infrastructure/scheduler"
	"github.com/orris-inc/saasportal/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/orris-inc/saasportal/internal/interfaces/http"
	"github.com/orris-inc/saasportal/internal/shared/config"
	"github.com/orris-inc/saasportal/internal/shared/constants"
	"github.com/orris-inc/saasportal/internal/shared/goroutine"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

const consumerDrainTimeout = 10 * time.Second

var (
	env          string
	configPath   string
	noSubscriber bool
	noSweeps     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the lifecycle sweeps and the notification consumer",
		Long:  `Run the expiration, notification and storage sweeps on their configured intervals, and consume notification events from the configured broker.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&noSubscriber, "no-subscriber", false, "Do not consume notification events")
	cmd.Flags().BoolVar(&noSweeps, "no-sweeps", false, "Do not schedule the lifecycle sweeps")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, log, err := bootstrap.Environment(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	log.Infow("starting worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	redisClient, err := bootstrap.Redis(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	container, err := httpRouter.NewContainer(database.Get(), redisClient, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer func() {
		if err := container.Shutdown(); err != nil {
			log.Warnw("failed to release notification transport", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !noSweeps {
		manager, err := startScheduler(container.LifecycleJobs(), cfg.Scheduler, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := manager.Stop(); err != nil {
				log.Errorw("failed to stop scheduler", "error", err)
			}
		}()
	}

	var consumerDone <-chan struct{}
	if sub := container.NotificationSubscriber(); sub != nil && !noSubscriber {
		consumerDone = consume(ctx, sub, log)
	} else if !noSubscriber {
		log.Infow("notification transport has no consumer side", "transport", cfg.Notification.Transport)
	}

	log.Infow("worker started")
	<-ctx.Done()
	log.Infow("received signal, shutting down worker")

	if consumerDone != nil {
		select {
		case <-consumerDone:
		case <-time.After(consumerDrainTimeout):
			log.Warnw("notification subscriber did not stop in time", "timeout", consumerDrainTimeout)
		}
	}
	return nil
}

func startScheduler(jobs scheduler.LifecycleJobs, cfg config.SchedulerConfig, log logger.Interface) (*scheduler.SchedulerManager, error) {
	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := manager.RegisterLifecycleJobs(jobs, scheduler.Intervals{
		Expire:     minutes(cfg.ExpireIntervalMinutes),
		Notify:     minutes(cfg.NotifyIntervalMinutes),
		Storage:    minutes(cfg.StorageIntervalMinutes),
		RunTimeout: minutes(cfg.RunTimeoutMinutes),
	}); err != nil {
		return nil, err
	}

	manager.Start()
	return manager, nil
}

// consume hands received events to the log hook until ctx is cancelled.
// Rendering and delivery of the messages belong to the mail service.
func consume(ctx context.Context, sub pubsub.Subscriber, log logger.Interface) <-chan struct{} {
	sink := pubsub.NewLogHook(log.With("component", "notification.consumer"))
	return goroutine.SafeGo(log, "notification-subscriber", func() {
		if err := sub.Subscribe(ctx, sink.Notify); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("notification subscriber stopped", "error", err)
		}
	})
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
