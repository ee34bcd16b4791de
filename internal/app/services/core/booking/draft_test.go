package booking

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledDraft() models.BookingDraft {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	draft := ApplyIdentity(NewDraft("user-1", now), models.BookingIdentity{FullName: "Asha"}, now)
	draft, _ = ApplySearchResult(draft, "560001", []string{"HC1", "DR2"}, now)
	draft, _ = ApplyProvider(draft, "HC1", now)
	draft, _ = ApplyDate(draft, "2024-07-01", []string{"09:00"}, now)
	draft, _ = ApplySlot(draft, "09:00", "svc-1", now)
	return draft
}

func TestApplyProviderClearsScheduleOnlyWhenChanged(t *testing.T) {
	now := time.Now()
	draft := scheduledDraft()

	same, err := ApplyProvider(draft, "HC1", now)
	require.NoError(t, err)
	assert.Equal(t, "09:00", same.Slot)

	other, err := ApplyProvider(draft, "DR2", now)
	require.NoError(t, err)
	assert.Empty(t, other.Date)
	assert.Empty(t, other.Slot)
	assert.Equal(t, "Asha", other.Identity.FullName)
}

func TestApplySearchResultKeepsProviderStillListed(t *testing.T) {
	now := time.Now()

	kept, err := ApplySearchResult(scheduledDraft(), "560001", []string{"HC1"}, now)
	require.NoError(t, err)
	assert.Equal(t, "HC1", kept.ProviderID)

	dropped, err := ApplySearchResult(scheduledDraft(), "560002", []string{}, now)
	require.NoError(t, err)
	assert.True(t, dropped.NoResults)
	assert.Empty(t, dropped.ProviderID)
	assert.NotNil(t, dropped.Identity)
}

func TestCheckConfirmable(t *testing.T) {
	assert.NoError(t, CheckConfirmable(scheduledDraft()))

	noSlots, _ := ApplyDate(scheduledDraft(), "2024-07-02", []string{}, time.Now())
	err := CheckConfirmable(noSlots)
	assert.True(t, exceptions.IsValidation(err))

	empty := NewDraft("user-1", time.Now())
	assert.True(t, exceptions.IsPreconditionFailed(CheckConfirmable(empty)))
}

func TestGoToRequiresEarlierSteps(t *testing.T) {
	empty := NewDraft("user-1", time.Now())

	_, err := GoTo(empty, models.BookingStepSchedule, time.Now())
	assert.True(t, exceptions.IsPreconditionFailed(err))

	back, err := GoTo(scheduledDraft(), models.BookingStepProvider, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStepProvider, back.Step)
	assert.Equal(t, "svc-1", back.ServiceID)
}
