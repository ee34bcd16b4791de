package booking

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"
)

// The functions below are the wizard's state transitions. Each one takes a
// draft by value and returns the next draft, so callers decide when to persist.

func NewDraft(userID string, now time.Time) models.BookingDraft {
	return models.BookingDraft{
		UserID:    userID,
		Step:      models.BookingStepIdentity,
		UpdatedAt: now,
	}
}

func ApplyIdentity(draft models.BookingDraft, identity models.BookingIdentity, now time.Time) models.BookingDraft {
	draft.Identity = &identity
	if draft.Step.Order() < models.BookingStepProvider.Order() {
		draft.Step = models.BookingStepProvider
	}
	draft.UpdatedAt = now
	return draft
}

// ApplySearchResult records the latest search. An empty result is a state of
// its own; everything collected before stays and the patient can search again.
// A previous provider selection survives only if it is still in the results.
func ApplySearchResult(draft models.BookingDraft, postalCode string, providerIDs []string, now time.Time) (models.BookingDraft, error) {
	if draft.Identity == nil {
		return draft, stepIncomplete("identity missing")
	}
	draft.PostalCode = postalCode
	draft.SearchResults = providerIDs
	draft.NoResults = len(providerIDs) == 0
	if draft.ProviderID != "" && !contains(providerIDs, draft.ProviderID) {
		draft = clearProvider(draft)
	}
	draft.Step = models.BookingStepProvider
	draft.UpdatedAt = now
	return draft, nil
}

func ApplyProvider(draft models.BookingDraft, providerID string, now time.Time) (models.BookingDraft, error) {
	if draft.Identity == nil {
		return draft, stepIncomplete("identity missing")
	}
	if !contains(draft.SearchResults, providerID) {
		return draft, exceptions.ErrValidationField("provider_id", constvars.ErrClientProviderNotInResults)
	}
	if draft.ProviderID != providerID {
		draft = clearProvider(draft)
		draft.ProviderID = providerID
	}
	draft.Step = models.BookingStepSchedule
	draft.UpdatedAt = now
	return draft, nil
}

// ApplyDate stores the picked date with its resolved slots. A date without
// slots is recorded as NoSlots so no time can be picked for it.
func ApplyDate(draft models.BookingDraft, date string, slots []string, now time.Time) (models.BookingDraft, error) {
	if draft.ProviderID == "" {
		return draft, stepIncomplete("provider missing")
	}
	if draft.Date != date || !contains(slots, draft.Slot) {
		draft.Slot = ""
	}
	draft.Date = date
	draft.AvailableSlots = slots
	draft.NoSlots = len(slots) == 0
	draft.Step = models.BookingStepSchedule
	draft.UpdatedAt = now
	return draft, nil
}

func ApplySlot(draft models.BookingDraft, slot, serviceID string, now time.Time) (models.BookingDraft, error) {
	if draft.Date == "" {
		return draft, stepIncomplete("date missing")
	}
	if draft.NoSlots {
		return draft, exceptions.ErrValidationField("slot", constvars.ErrClientNoSlotsForDate)
	}
	if !contains(draft.AvailableSlots, slot) {
		return draft, exceptions.ErrValidationField("slot", constvars.ErrClientSlotNotOffered)
	}
	draft.Slot = slot
	draft.ServiceID = serviceID
	draft.UpdatedAt = now
	return draft, nil
}

// GoTo moves the wizard to an earlier or already reachable step. Nothing
// collected so far is dropped.
func GoTo(draft models.BookingDraft, step models.BookingStep, now time.Time) (models.BookingDraft, error) {
	switch step {
	case models.BookingStepIdentity:
	case models.BookingStepProvider:
		if draft.Identity == nil {
			return draft, stepIncomplete("identity missing")
		}
	case models.BookingStepSchedule:
		if draft.Identity == nil || draft.ProviderID == "" {
			return draft, stepIncomplete("provider missing")
		}
	default:
		return draft, exceptions.ErrValidationField("step", constvars.CustomValidationErrorMessages["oneof"])
	}
	draft.Step = step
	draft.UpdatedAt = now
	return draft, nil
}

// CheckConfirmable reports whether every piece confirm needs is in the draft.
func CheckConfirmable(draft models.BookingDraft) error {
	switch {
	case draft.Identity == nil:
		return stepIncomplete("identity missing")
	case draft.ProviderID == "":
		return stepIncomplete("provider missing")
	case draft.Date == "":
		return stepIncomplete("date missing")
	case draft.NoSlots:
		return exceptions.ErrValidationField("slot", constvars.ErrClientNoSlotsForDate)
	case draft.Slot == "" || draft.ServiceID == "":
		return stepIncomplete("slot or service missing")
	}
	return nil
}

func clearProvider(draft models.BookingDraft) models.BookingDraft {
	draft.ProviderID = ""
	draft.Date = ""
	draft.AvailableSlots = nil
	draft.NoSlots = false
	draft.Slot = ""
	draft.ServiceID = ""
	return draft
}

func stepIncomplete(reason string) error {
	return exceptions.ErrPreconditionFailed(constvars.ErrClientBookingStepIncomplete, reason)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
