package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type BookingController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
}

var (
	bookingControllerInstance *BookingController
	onceBookingController     sync.Once
)

func NewBookingController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase) *BookingController {
	onceBookingController.Do(func() {
		bookingControllerInstance = &BookingController{
			Log:            logger,
			BookingUsecase: bookingUsecase,
		}
	})
	return bookingControllerInstance
}

func (ctrl *BookingController) GetDraft(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "BookingController.GetDraft", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	step, err := ctrl.BookingUsecase.GetDraft(ctx, session)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "BookingController.GetDraft", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessBookingDraft, step)
}

func (ctrl *BookingController) SubmitIdentity(w http.ResponseWriter, r *http.Request) {
	request := new(requests.BookingIdentity)
	ctrl.runStep(w, r, "BookingController.SubmitIdentity", request, func(ctx context.Context, session *models.Session) (*responses.BookingStep, error) {
		return ctrl.BookingUsecase.SubmitIdentity(ctx, session, request)
	})
}

func (ctrl *BookingController) SearchProviders(w http.ResponseWriter, r *http.Request) {
	request := new(requests.ProviderSearch)
	ctrl.runStep(w, r, "BookingController.SearchProviders", request, func(ctx context.Context, session *models.Session) (*responses.BookingStep, error) {
		return ctrl.BookingUsecase.SearchProviders(ctx, session, request)
	})
}

func (ctrl *BookingController) SelectProvider(w http.ResponseWriter, r *http.Request) {
	request := new(requests.BookingSelectProvider)
	ctrl.runStep(w, r, "BookingController.SelectProvider", request, func(ctx context.Context, session *models.Session) (*responses.BookingStep, error) {
		return ctrl.BookingUsecase.SelectProvider(ctx, session, request)
	})
}

func (ctrl *BookingController) SelectSchedule(w http.ResponseWriter, r *http.Request) {
	request := new(requests.BookingSchedule)
	ctrl.runStep(w, r, "BookingController.SelectSchedule", request, func(ctx context.Context, session *models.Session) (*responses.BookingStep, error) {
		return ctrl.BookingUsecase.SelectSchedule(ctx, session, request)
	})
}

func (ctrl *BookingController) GoToStep(w http.ResponseWriter, r *http.Request) {
	request := new(requests.BookingGoToStep)
	ctrl.runStep(w, r, "BookingController.GoToStep", request, func(ctx context.Context, session *models.Session) (*responses.BookingStep, error) {
		return ctrl.BookingUsecase.GoToStep(ctx, session, request)
	})
}

func (ctrl *BookingController) Confirm(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "BookingController.Confirm", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	confirmation, err := ctrl.BookingUsecase.Confirm(ctx, session)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "BookingController.Confirm", err)
		return
	}

	ctrl.Log.Info("BookingController.Confirm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, confirmation.Appointment.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseSuccessBookingConfirmed, confirmation)
}

func (ctrl *BookingController) Discard(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "BookingController.Discard", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.BookingUsecase.Discard(ctx, session); err != nil {
		writeError(ctrl.Log, w, requestID, "BookingController.Discard", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessBookingDiscarded, nil)
}

// runStep decodes request and runs one wizard step with the caller's session.
func (ctrl *BookingController) runStep(w http.ResponseWriter, r *http.Request, handlerName string, request interface{}, step func(context.Context, *models.Session) (*responses.BookingStep, error)) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, handlerName, true)
	if !ok {
		return
	}

	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, handlerName, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := step(ctx, session)
	if err != nil {
		writeError(ctrl.Log, w, requestID, handlerName, err)
		return
	}

	ctrl.Log.Info(handlerName+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingStepKey, string(response.Draft.Step)),
	)
	message := constvars.ResponseSuccessBookingStep
	if response.Message != "" {
		message = response.Message
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, response)
}
