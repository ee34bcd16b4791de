package booking

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	defaultWindowDays  = 7
	defaultDraftTTL    = 30 * time.Minute
	defaultSlotLockTTL = 30 * time.Second
)

type bookingUsecase struct {
	RedisRepository       contracts.RedisRepository
	LockerService         contracts.LockerService
	ProviderUsecase       contracts.ProviderUsecase
	CatalogUsecase        contracts.CatalogUsecase
	SlotUsecase           contracts.SlotUsecase
	AppointmentUsecase    contracts.AppointmentUsecase
	AppointmentRepository contracts.AppointmentRepository
	PaymentUsecase        contracts.PaymentUsecase
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
	now                   func() time.Time
}

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

func NewBookingUsecase(
	redisRepository contracts.RedisRepository,
	lockerService contracts.LockerService,
	providerUsecase contracts.ProviderUsecase,
	catalogUsecase contracts.CatalogUsecase,
	slotUsecase contracts.SlotUsecase,
	appointmentUsecase contracts.AppointmentUsecase,
	appointmentRepository contracts.AppointmentRepository,
	paymentUsecase contracts.PaymentUsecase,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		bookingUsecaseInstance = &bookingUsecase{
			RedisRepository:       redisRepository,
			LockerService:         lockerService,
			ProviderUsecase:       providerUsecase,
			CatalogUsecase:        catalogUsecase,
			SlotUsecase:           slotUsecase,
			AppointmentUsecase:    appointmentUsecase,
			AppointmentRepository: appointmentRepository,
			PaymentUsecase:        paymentUsecase,
			InternalConfig:        internalConfig,
			Log:                   logger,
			now:                   time.Now,
		}
	})
	return bookingUsecaseInstance
}

func (uc *bookingUsecase) GetDraft(ctx context.Context, session *models.Session) (*responses.BookingStep, error) {
	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return &responses.BookingStep{Draft: draft}, nil
}

func (uc *bookingUsecase) SubmitIdentity(ctx context.Context, session *models.Session, request *requests.BookingIdentity) (*responses.BookingStep, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.SubmitIdentity called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		uc.Log.Info("bookingUsecase.SubmitIdentity validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	draft = ApplyIdentity(draft, models.BookingIdentity{
		FullName:    request.FullName,
		Phone:       request.Phone,
		Gender:      request.Gender,
		DateOfBirth: request.DateOfBirth,
	}, uc.now())

	if err := uc.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &responses.BookingStep{Draft: draft}, nil
}

// SearchProviders runs a provider search for the wizard. No results is a
// normal outcome and keeps the draft on the provider step.
func (uc *bookingUsecase) SearchProviders(ctx context.Context, session *models.Session, request *requests.ProviderSearch) (*responses.BookingStep, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.SearchProviders called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if draft.Identity == nil {
		return nil, stepIncomplete("identity missing")
	}

	result, err := uc.ProviderUsecase.SearchProviders(ctx, request)
	if err != nil {
		uc.Log.Error("bookingUsecase.SearchProviders error searching providers",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	providerIDs := make([]string, 0, len(result.Providers))
	for _, provider := range result.Providers {
		providerIDs = append(providerIDs, provider.ID)
	}

	draft, err = ApplySearchResult(draft, result.PostalCode, providerIDs, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.saveDraft(ctx, draft); err != nil {
		return nil, err
	}

	response := &responses.BookingStep{Draft: draft, Providers: result.Providers}
	if result.Empty {
		response.Message = constvars.ResponseSuccessNoProvidersFound
	}
	return response, nil
}

func (uc *bookingUsecase) SelectProvider(ctx context.Context, session *models.Session, request *requests.BookingSelectProvider) (*responses.BookingStep, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.SelectProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, request.ProviderID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	draft, err = ApplyProvider(draft, request.ProviderID, uc.now())
	if err != nil {
		return nil, err
	}

	if _, err := uc.ProviderUsecase.FindBookableProvider(ctx, request.ProviderID); err != nil {
		return nil, err
	}

	if err := uc.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &responses.BookingStep{Draft: draft}, nil
}

// SelectSchedule resolves the slots of the picked date and, when given, records
// the slot and service. The date is stored even when it has no slots so the
// draft shows why nothing can be picked.
func (uc *bookingUsecase) SelectSchedule(ctx context.Context, session *models.Session, request *requests.BookingSchedule) (*responses.BookingStep, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.SelectSchedule called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDateKey, request.Date),
		zap.String(constvars.LoggingSlotKey, request.Slot),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	date, err := utils.ParseDate(request.Date)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err, "date")
	}
	if !uc.withinWindow(date) {
		return nil, exceptions.ErrValidationField("date", constvars.ErrClientDateOutsideBookingWindow)
	}

	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if draft.ProviderID == "" {
		return nil, stepIncomplete("provider missing")
	}

	slots, err := uc.SlotUsecase.FindSlots(ctx, draft.ProviderID, date)
	if err != nil {
		uc.Log.Error("bookingUsecase.SelectSchedule error resolving slots",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	draft, err = ApplyDate(draft, request.Date, slots, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.saveDraft(ctx, draft); err != nil {
		return nil, err
	}

	response := &responses.BookingStep{Draft: draft}
	if draft.NoSlots {
		response.Message = constvars.ErrClientNoSlotsForDate
		if request.Slot != "" {
			return nil, exceptions.ErrValidationField("slot", constvars.ErrClientNoSlotsForDate)
		}
		return response, nil
	}

	if request.Slot != "" {
		if _, err := uc.CatalogUsecase.FindActiveService(ctx, draft.ProviderID, request.ServiceID); err != nil {
			return nil, err
		}
		draft, err = ApplySlot(draft, request.Slot, request.ServiceID, uc.now())
		if err != nil {
			return nil, err
		}
		if err := uc.saveDraft(ctx, draft); err != nil {
			return nil, err
		}
		response.Draft = draft
	}

	services, err := uc.CatalogUsecase.ListActiveServices(ctx, draft.ProviderID)
	if err != nil {
		return nil, err
	}
	response.Services = services
	return response, nil
}

func (uc *bookingUsecase) GoToStep(ctx context.Context, session *models.Session, request *requests.BookingGoToStep) (*responses.BookingStep, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	draft, err = GoTo(draft, models.BookingStep(request.Step), uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &responses.BookingStep{Draft: draft}, nil
}

// Confirm turns a complete draft into a pending appointment. The price and
// purpose come from the service as it is right now, and the slot is held by a
// short Redis lock while the store is checked for a live booking on it.
func (uc *bookingUsecase) Confirm(ctx context.Context, session *models.Session) (*responses.BookingConfirmation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.Confirm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	draft, err := uc.loadDraft(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if err := CheckConfirmable(draft); err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(draft.Date)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err, "date")
	}
	// The draft may have been saved on an earlier day.
	if !uc.withinWindow(date) {
		return nil, exceptions.ErrValidationField("date", constvars.ErrClientDateOutsideBookingWindow)
	}
	dob, err := utils.ParseDate(draft.Identity.DateOfBirth)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err, "date_of_birth")
	}

	provider, err := uc.ProviderUsecase.FindBookableProvider(ctx, draft.ProviderID)
	if err != nil {
		return nil, err
	}
	service, err := uc.CatalogUsecase.FindActiveService(ctx, draft.ProviderID, draft.ServiceID)
	if err != nil {
		return nil, err
	}

	slots, err := uc.SlotUsecase.FindSlots(ctx, draft.ProviderID, date)
	if err != nil {
		return nil, err
	}
	if !contains(slots, draft.Slot) {
		return nil, slotTaken(fmt.Errorf("slot %s is no longer offered", draft.Slot))
	}

	lockKey := fmt.Sprintf("%s%s:%s:%s", constvars.RedisKeySlotLockPrefix, draft.ProviderID, draft.Date, draft.Slot)
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, uc.slotLockTTL())
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, slotTaken(fmt.Errorf("slot lock %s is held", lockKey))
	}
	defer func() {
		if err := uc.LockerService.Unlock(ctx, lockKey, lockValue); err != nil {
			uc.Log.Warn("bookingUsecase.Confirm error releasing slot lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	if !uc.InternalConfig.Booking.AllowOverlappingBookings {
		existing, err := uc.AppointmentRepository.FindLiveBySlot(ctx, draft.ProviderID, date, draft.Slot)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, slotTaken(fmt.Errorf("appointment %s holds the slot", existing.ID))
		}
	}

	appointment, err := uc.AppointmentUsecase.CreateAppointment(ctx, &models.Appointment{
		ProviderID:   provider.ID,
		ProviderKind: provider.Kind,
		UserID:       session.UserID,
		UserName:     draft.Identity.FullName,
		Phone:        draft.Identity.Phone,
		Gender:       draft.Identity.Gender,
		DOB:          dob,
		Date:         date,
		Time:         draft.Slot,
		Purpose:      service.ServiceName,
		Price:        service.Price,
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.Confirm error creating appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if !appointment.RequiresPayment() {
		// The appointment already holds the slot. If settling fails it stays
		// pending and the reconcile sweep settles it later.
		settled, err := uc.PaymentUsecase.SettleFreeBooking(ctx, appointment)
		if err != nil {
			uc.Log.Warn("bookingUsecase.Confirm error settling free booking, left pending",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.Error(err),
			)
		} else {
			appointment = settled
		}
	}

	if err := uc.RedisRepository.Delete(ctx, draftKey(session.UserID)); err != nil {
		uc.Log.Warn("bookingUsecase.Confirm error deleting draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("bookingUsecase.Confirm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.Int64(constvars.LoggingAmountKey, appointment.Price),
	)
	return &responses.BookingConfirmation{
		Appointment:     utils.MapAppointmentToResponse(appointment),
		PaymentRequired: appointment.IsPaymentOutstanding(),
	}, nil
}

func (uc *bookingUsecase) Discard(ctx context.Context, session *models.Session) error {
	return uc.RedisRepository.Delete(ctx, draftKey(session.UserID))
}

func (uc *bookingUsecase) loadDraft(ctx context.Context, userID string) (models.BookingDraft, error) {
	raw, err := uc.RedisRepository.Get(ctx, draftKey(userID))
	if err != nil {
		return models.BookingDraft{}, err
	}
	if raw == "" {
		return NewDraft(userID, uc.now()), nil
	}

	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		uc.Log.Warn("bookingUsecase.loadDraft discarding unreadable draft",
			zap.String(constvars.LoggingUserIDKey, userID),
			zap.Error(err),
		)
		return NewDraft(userID, uc.now()), nil
	}
	return draft, nil
}

func (uc *bookingUsecase) saveDraft(ctx context.Context, draft models.BookingDraft) error {
	ttl := time.Duration(uc.InternalConfig.Booking.DraftExpiredTimeInMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return uc.RedisRepository.Set(ctx, draftKey(draft.UserID), draft, ttl)
}

func (uc *bookingUsecase) slotLockTTL() time.Duration {
	ttl := time.Duration(uc.InternalConfig.Booking.SlotLockExpiredTimeInSeconds) * time.Second
	if ttl <= 0 {
		return defaultSlotLockTTL
	}
	return ttl
}

// withinWindow checks date against [today, today+window] in the app timezone.
func (uc *bookingUsecase) withinWindow(date time.Time) bool {
	location, err := time.LoadLocation(uc.InternalConfig.App.Timezone)
	if err != nil {
		location = time.UTC
	}
	now := uc.now().In(location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	windowDays := uc.InternalConfig.Booking.WindowDays
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	last := today.AddDate(0, 0, windowDays)
	return !date.Before(today) && !date.After(last)
}

func draftKey(userID string) string {
	return constvars.RedisKeyBookingDraftPrefix + userID
}

func slotTaken(err error) error {
	return exceptions.ErrConflict(err, "slot", constvars.ErrClientSlotNoLongerAvailable)
}
