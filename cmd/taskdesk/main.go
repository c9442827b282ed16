package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/internal/config"
	"github.com/taskdesk/client/internal/infrastructure/credstore"
	"github.com/taskdesk/client/internal/infrastructure/push"
	"github.com/taskdesk/client/internal/services"
	"github.com/taskdesk/client/internal/services/lifecycle"
	"github.com/taskdesk/client/pkg/logger"
	"github.com/taskdesk/client/repository/httpapi"
	"github.com/taskdesk/client/usecase"
	"github.com/taskdesk/client/usecase/directory"
	"github.com/taskdesk/client/usecase/session"
	"github.com/taskdesk/client/usecase/tasks"
	"github.com/taskdesk/client/usecase/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := credstore.Open(cfg.Credential.Path)
	if err != nil {
		zapLogger.Fatal("failed to open credential store", zap.Error(err))
	}
	manager.Register("credential_store", func(ctx context.Context) error {
		return store.Close()
	})

	apiClient := httpapi.NewClient(httpapi.Config{
		BaseURL:        cfg.API.BaseURL,
		RequestTimeout: cfg.API.RequestTimeout,
		Name:           cfg.AppName,
	}, zapLogger)

	hub := usecase.NewBroadcaster()
	sess := session.New(httpapi.NewAuthGateway(apiClient), store, apiClient, zapLogger)
	repo := tasks.New(httpapi.NewTaskGateway(apiClient), sess, hub, zapLogger)
	sess.OnSignOut(repo.Clear)

	if err := sess.Restore(appCtx); err != nil {
		zapLogger.Warn("session restore failed", zap.Error(err))
	}
	if sess.State() != session.StateAuthenticated {
		email, password := os.Getenv("TASKDESK_EMAIL"), os.Getenv("TASKDESK_PASSWORD")
		if email == "" || password == "" {
			zapLogger.Fatal("no stored session; set TASKDESK_EMAIL and TASKDESK_PASSWORD to sign in")
		}
		if err := sess.Login(appCtx, email, password); err != nil {
			zapLogger.Fatal("sign-in failed", zap.Error(err))
		}
	}

	if identity := sess.Identity(); identity != nil {
		users := directory.New(httpapi.NewDirectoryGateway(apiClient), sess, zapLogger)
		if assignable, err := users.AssignableUsers(appCtx); err == nil {
			zapLogger.Info("directory loaded", zap.Int("assignable_users", len(assignable)))
		} else if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
			zapLogger.Warn("directory fetch failed", zap.Error(err))
		}
	}

	hub.Subscribe("dashboard", func(snapshot []domain.Task) {
		counts := view.Count(snapshot, time.Now())
		zapLogger.Info("dashboard",
			zap.Int("total", counts.Total),
			zap.Int("completed", counts.Completed),
			zap.Int("in_progress", counts.InProgress),
			zap.Int("overdue", counts.Overdue))
	})

	if _, err := repo.List(appCtx); err != nil {
		zapLogger.Warn("initial task fetch failed", zap.Error(err))
	}

	source := push.NewSource(cfg.Push.URL, zapLogger)
	go source.Run(appCtx)

	refresher := &authAwareRefresher{repo: repo, sess: sess, cancel: cancel, logger: zapLogger}

	channel := services.NewSyncChannel(source.Signals(), refresher, services.SyncConfig{
		Debounce:       cfg.Sync.Debounce,
		RefreshTimeout: cfg.Sync.RefreshTimeout,
	}, zapLogger)
	channel.Start(appCtx)
	manager.Register("sync_channel", func(ctx context.Context) error {
		channel.Close()
		return nil
	})

	mon := services.NewMonitor(apiClient, source, cfg.Sync.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	reconciler := services.NewReconciler(refresher, mon, services.ReconcilerConfig{
		Interval:       cfg.Sync.ReconcileInterval,
		RefreshTimeout: cfg.Sync.RefreshTimeout,
	}, zapLogger)
	reconciler.Start()
	manager.Register("reconciler", func(ctx context.Context) error {
		reconciler.Stop(ctx)
		return nil
	})

	zapLogger.Info("taskdesk watching for changes",
		zap.String("api", cfg.API.BaseURL),
		zap.String("push", cfg.Push.URL))

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// authAwareRefresher forces a sign-out when the server rejects the
// credential mid-session, instead of retrying with a dead token forever.
type authAwareRefresher struct {
	repo   *tasks.Repository
	sess   *session.Session
	cancel context.CancelFunc
	logger *zap.Logger
}

func (r *authAwareRefresher) List(ctx context.Context) ([]domain.Task, error) {
	snapshot, err := r.repo.List(ctx)
	if err != nil && domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		r.logger.Warn("credential rejected, signing out")
		r.sess.SignOut()
		r.cancel()
	}
	return snapshot, err
}
