package controllers

import (
	"context"
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

type AvailabilityController struct {
	Log                 *zap.Logger
	AvailabilityUsecase contracts.AvailabilityUsecase
	SlotUsecase         contracts.SlotUsecase
}

var (
	availabilityControllerInstance *AvailabilityController
	onceAvailabilityController     sync.Once
)

func NewAvailabilityController(logger *zap.Logger, availabilityUsecase contracts.AvailabilityUsecase, slotUsecase contracts.SlotUsecase) *AvailabilityController {
	onceAvailabilityController.Do(func() {
		availabilityControllerInstance = &AvailabilityController{
			Log:                 logger,
			AvailabilityUsecase: availabilityUsecase,
			SlotUsecase:         slotUsecase,
		}
	})
	return availabilityControllerInstance
}

func (ctrl *AvailabilityController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := requestScope(ctrl.Log, w, r, "AvailabilityController.GetAvailability", false)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	week, err := ctrl.AvailabilityUsecase.GetAvailability(ctx, chi.URLParam(r, constvars.URLParamProviderID))
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AvailabilityController.GetAvailability", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessGetAvailability, week)
}

func (ctrl *AvailabilityController) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "AvailabilityController.ReplaceAvailability", true)
	if !ok {
		return
	}

	request := new(requests.ReplaceAvailability)
	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, "AvailabilityController.ReplaceAvailability", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	week, err := ctrl.AvailabilityUsecase.ReplaceAvailability(ctx, session, chi.URLParam(r, constvars.URLParamProviderID), request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AvailabilityController.ReplaceAvailability", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessReplaceAvailability, week)
}

// FindSlots resolves the bookable times of one date.
func (ctrl *AvailabilityController) FindSlots(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := requestScope(ctrl.Log, w, r, "AvailabilityController.FindSlots", false)
	if !ok {
		return
	}

	date, err := utils.ParseDate(r.URL.Query().Get(constvars.QueryParamDate))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseDate(err, constvars.QueryParamDate))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	slots, err := ctrl.SlotUsecase.FindSlots(ctx, chi.URLParam(r, constvars.URLParamProviderID), date)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "AvailabilityController.FindSlots", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessResolveSlots, slots)
}
