package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AppointmentController struct {
	Log                *zap.Logger
	AppointmentUsecase contracts.AppointmentUsecase
}

var (
	appointmentControllerInstance *AppointmentController
	onceAppointmentController     sync.Once
)

func NewAppointmentController(logger *zap.Logger, appointmentUsecase contracts.AppointmentUsecase) *AppointmentController {
	onceAppointmentController.Do(func() {
		appointmentControllerInstance = &AppointmentController{
			Log:                logger,
			AppointmentUsecase: appointmentUsecase,
		}
	})
	return appointmentControllerInstance
}

func (ctrl *AppointmentController) FindMine(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.FindMine", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.FindMine(ctx, session)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.FindMine", err)
		return
	}

	ctrl.Log.Info("AppointmentController.FindMine succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(appointments)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessFindAppointments, appointments)
}

func (ctrl *AppointmentController) FindByProvider(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.FindByProvider", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointments, err := ctrl.AppointmentUsecase.FindByProvider(ctx, session, chi.URLParam(r, constvars.URLParamProviderID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.FindByProvider", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessFindAppointments, appointments)
}

func (ctrl *AppointmentController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.FindByID", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.FindByID(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.FindByID", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessFindAppointment, appointment)
}

func (ctrl *AppointmentController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.UpdateStatus", true)
	if !ok {
		return
	}

	request := new(requests.UpdateAppointmentStatus)
	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.UpdateStatus", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.UpdateStatus(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID), request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.UpdateStatus", err)
		return
	}

	ctrl.Log.Info("AppointmentController.UpdateStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentStatusKey, string(appointment.Status)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessUpdateStatus, appointment)
}

func (ctrl *AppointmentController) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.DeleteAppointment", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ctrl.AppointmentUsecase.DeleteAppointment(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID)); err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.DeleteAppointment", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessDeleteAppointment, nil)
}

func (ctrl *AppointmentController) StatusHistory(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.StatusHistory", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	history, err := ctrl.AppointmentUsecase.StatusHistory(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.StatusHistory", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessStatusHistory, history)
}

func (ctrl *AppointmentController) GenerateMeetingLink(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AppointmentController.GenerateMeetingLink", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	appointment, err := ctrl.AppointmentUsecase.GenerateMeetingLink(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AppointmentController.GenerateMeetingLink", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessGenerateMeetingLink, appointment)
}
