package controllers

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *PaymentController {
	oncePaymentController.Do(func() {
		paymentControllerInstance = &PaymentController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
	})
	return paymentControllerInstance
}

func (ctrl *PaymentController) StartPayment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "PaymentController.StartPayment", true)
	if !ok {
		return
	}

	request := new(requests.StartPayment)
	if r.ContentLength != 0 {
		if err := decodeJSON(r, request); err != nil {
			writeError(ctrl.Log, w, requestID, "PaymentController.StartPayment", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	order, err := ctrl.PaymentUsecase.StartPayment(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID), request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "PaymentController.StartPayment", err)
		return
	}

	ctrl.Log.Info("PaymentController.StartPayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, order.OrderID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseSuccessStartPayment, order)
}

func (ctrl *PaymentController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "PaymentController.VerifyPayment", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	verification, err := ctrl.PaymentUsecase.VerifyPayment(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "PaymentController.VerifyPayment", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessVerifyPayment, verification)
}

func (ctrl *PaymentController) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "PaymentController.PaymentStatus", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	status, err := ctrl.PaymentUsecase.PaymentStatus(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "PaymentController.PaymentStatus", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessPaymentStatus, status)
}

func (ctrl *PaymentController) Receipt(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "PaymentController.Receipt", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	content, fileName, err := ctrl.PaymentUsecase.Receipt(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "PaymentController.Receipt", err)
		return
	}
	utils.BuildFileResponse(w, constvars.MIMEApplicationPDF, fileName, content)
}

// Webhook expects BodyBuffer to have stored the raw body; the signature is
// checked over those bytes.
func (ctrl *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := requestScope(ctrl.Log, w, r, "PaymentController.Webhook", false)
	if !ok {
		return
	}

	body, ok := r.Context().Value(constvars.CONTEXT_RAW_BODY).([]byte)
	if !ok || len(body) == 0 {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInvalidWebhook(errors.New("empty webhook body")))
		return
	}

	signature := r.Header.Get(constvars.HeaderWebhookSignature)
	if signature == "" {
		signature = r.Header.Get(constvars.HeaderRazorpaySignature)
	}
	request := &requests.PaymentWebhook{
		Body:      body,
		Signature: signature,
		Timestamp: r.Header.Get(constvars.HeaderWebhookTimestamp),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.PaymentUsecase.HandleWebhook(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "PaymentController.Webhook", err)
		return
	}

	ctrl.Log.Info("PaymentController.Webhook succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.String(constvars.LoggingAppointmentStatusKey, string(appointment.Status)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessPaymentWebhook, appointment)
}
