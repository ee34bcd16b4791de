package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProviderController struct {
	Log             *zap.Logger
	ProviderUsecase contracts.ProviderUsecase
}

var (
	providerControllerInstance *ProviderController
	onceProviderController     sync.Once
)

func NewProviderController(logger *zap.Logger, providerUsecase contracts.ProviderUsecase) *ProviderController {
	onceProviderController.Do(func() {
		providerControllerInstance = &ProviderController{
			Log:             logger,
			ProviderUsecase: providerUsecase,
		}
	})
	return providerControllerInstance
}

func (ctrl *ProviderController) SearchByPostalCode(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := requestScope(ctrl.Log, w, r, "ProviderController.SearchByPostalCode", false)
	if !ok {
		return
	}

	request := &requests.ProviderSearch{PostalCode: r.URL.Query().Get(constvars.QueryParamPostalCode)}
	if request.PostalCode == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrValidationField(constvars.QueryParamPostalCode, constvars.CustomValidationErrorMessages["postal_code"]))
		return
	}
	ctrl.search(w, r, requestID, "ProviderController.SearchByPostalCode", request)
}

func (ctrl *ProviderController) SearchNearby(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := requestScope(ctrl.Log, w, r, "ProviderController.SearchNearby", false)
	if !ok {
		return
	}

	latitude, err := strconv.ParseFloat(r.URL.Query().Get(constvars.QueryParamLatitude), 64)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrValidationField(constvars.QueryParamLatitude, constvars.CustomValidationErrorMessages["latitude"]))
		return
	}
	longitude, err := strconv.ParseFloat(r.URL.Query().Get(constvars.QueryParamLongitude), 64)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrValidationField(constvars.QueryParamLongitude, constvars.CustomValidationErrorMessages["longitude"]))
		return
	}

	ctrl.search(w, r, requestID, "ProviderController.SearchNearby", &requests.ProviderSearch{
		Latitude:  &latitude,
		Longitude: &longitude,
	})
}

func (ctrl *ProviderController) search(w http.ResponseWriter, r *http.Request, requestID, handlerName string, request *requests.ProviderSearch) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.ProviderUsecase.SearchProviders(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, handlerName, err)
		return
	}

	message := constvars.ResponseSuccessSearchProviders
	if response.Empty {
		message = constvars.ResponseSuccessNoProvidersFound
	}
	ctrl.Log.Info(handlerName+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPostalCodeKey, response.PostalCode),
		zap.Int(constvars.LoggingCountKey, len(response.Providers)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, response)
}

func (ctrl *ProviderController) RegisterProvider(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "ProviderController.RegisterProvider", true)
	if !ok {
		return
	}

	request := new(requests.RegisterProvider)
	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, "ProviderController.RegisterProvider", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	provider, err := ctrl.ProviderUsecase.RegisterProvider(ctx, session, request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "ProviderController.RegisterProvider", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseSuccessRegisterProvider, provider)
}

func (ctrl *ProviderController) ApproveProvider(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "ProviderController.ApproveProvider", true)
	if !ok {
		return
	}

	request := new(requests.ApproveProvider)
	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, "ProviderController.ApproveProvider", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	provider, err := ctrl.ProviderUsecase.ApproveProvider(ctx, session, chi.URLParam(r, constvars.URLParamProviderID), request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "ProviderController.ApproveProvider", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessApproveProvider, provider)
}
