package payments

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultReconcileBatchSize = 50
	reconcileLeaderTTL        = 2 * time.Minute
)

// ReconcileWorker periodically confirms pending appointments whose gateway
// order was paid without the webhook reaching us.
type ReconcileWorker struct {
	log            *zap.Logger
	cfg            *config.InternalConfig
	locker         contracts.LockerService
	paymentUsecase contracts.PaymentUsecase
	cron           *cron.Cron
	runCtx         context.Context
	cancel         context.CancelFunc
}

func NewReconcileWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, paymentUsecase contracts.PaymentUsecase) *ReconcileWorker {
	return &ReconcileWorker{log: log, cfg: cfg, locker: lockerSvc, paymentUsecase: paymentUsecase}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.App.ReconcileWorkerCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("payments.worker: invalid cron spec, falling back to @every 5m",
			zap.String(constvars.LoggingCronSpecKey, spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc("@every 5m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running sweep to finish.
func (w *ReconcileWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *ReconcileWorker) runOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeyReconcileLeaderLock, reconcileLeaderTTL)
	if err != nil {
		w.log.Warn("payments.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("payments.worker: leader lock not acquired, another instance is running")
		return
	}
	defer w.locker.Unlock(ctx, constvars.RedisKeyReconcileLeaderLock, token)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(reconcileLeaderTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, constvars.RedisKeyReconcileLeaderLock, token, reconcileLeaderTTL); err != nil {
					w.log.Warn("payments.worker: failed to refresh leader lock", zap.Error(err))
				}
			}
		}
	}()

	batchSize := w.cfg.App.ReconcileWorkerBatchSize
	if batchSize <= 0 {
		batchSize = defaultReconcileBatchSize
	}

	finalized, err := w.paymentUsecase.ReconcilePending(ctx, batchSize)
	if err != nil {
		w.log.Warn("payments.worker: reconciliation failed", zap.Error(err))
		return
	}
	w.log.Info("payments.worker: reconciliation finished", zap.Int(constvars.LoggingCountKey, finalized))
}
