package payments

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type fakeLocker struct {
	held     bool
	unlocked bool
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if l.held {
		return false, "", nil
	}
	l.held = true
	return true, "token", nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.held = false
	l.unlocked = true
	return nil
}

func (l *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func TestReconcileWorkerRunOnce(t *testing.T) {
	t.Run("leader finalizes paid orders", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
		uc, gateway, _ := newTestUsecase(store)
		gateway.On("VerifyOrder", mock.Anything, "order-1").Return(&models.PaymentOrder{OrderID: "order-1", Status: models.PaymentOrderStatusPaid}, nil)
		locker := &fakeLocker{}
		worker := NewReconcileWorker(zap.NewNop(), &config.InternalConfig{}, locker, uc)

		worker.runOnce(context.Background())

		assert.Equal(t, models.AppointmentStatusConfirmed, store.status("appt-1"))
		assert.True(t, locker.unlocked)
	})

	t.Run("follower does nothing", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
		uc, gateway, _ := newTestUsecase(store)
		worker := NewReconcileWorker(zap.NewNop(), &config.InternalConfig{}, &fakeLocker{held: true}, uc)

		worker.runOnce(context.Background())

		assert.Equal(t, models.AppointmentStatusPending, store.status("appt-1"))
		gateway.AssertNotCalled(t, "VerifyOrder", mock.Anything, mock.Anything)
	})
}

func TestReconcileWorkerStop(t *testing.T) {
	store := newMemoryAppointments()
	uc, _, _ := newTestUsecase(store)
	worker := NewReconcileWorker(zap.NewNop(), &config.InternalConfig{
		App: config.App{ReconcileWorkerCronSpec: "@every 1h"},
	}, &fakeLocker{}, uc)

	worker.Stop()
	worker.Start(context.Background())
	worker.Stop()
	worker.Stop()

	assert.Error(t, worker.runCtx.Err())
}
