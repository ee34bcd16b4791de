package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogController struct {
	Log            *zap.Logger
	CatalogUsecase contracts.CatalogUsecase
}

var (
	catalogControllerInstance *CatalogController
	onceCatalogController     sync.Once
)

func NewCatalogController(logger *zap.Logger, catalogUsecase contracts.CatalogUsecase) *CatalogController {
	onceCatalogController.Do(func() {
		catalogControllerInstance = &CatalogController{
			Log:            logger,
			CatalogUsecase: catalogUsecase,
		}
	})
	return catalogControllerInstance
}

// ListServices returns active services. With all=true the provider's managers
// also see inactive ones.
func (ctrl *CatalogController) ListServices(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, constvars.URLParamProviderID)
	all, _ := strconv.ParseBool(r.URL.Query().Get(constvars.QueryParamAll))

	requestID, session, ok := requestScope(ctrl.Log, w, r, "CatalogController.ListServices", all)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		services []models.Service
		err      error
	)
	if all {
		services, err = ctrl.CatalogUsecase.ListServices(ctx, session, providerID)
	} else {
		services, err = ctrl.CatalogUsecase.ListActiveServices(ctx, providerID)
	}
	if err != nil {
		writeError(ctrl.Log, w, requestID, "CatalogController.ListServices", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessListServices, services)
}

func (ctrl *CatalogController) UpsertService(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "CatalogController.UpsertService", true)
	if !ok {
		return
	}

	request := new(requests.UpsertService)
	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, "CatalogController.UpsertService", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	service, err := ctrl.CatalogUsecase.UpsertService(ctx, session, chi.URLParam(r, constvars.URLParamProviderID), request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "CatalogController.UpsertService", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessUpsertService, service)
}

func (ctrl *CatalogController) DeleteService(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "CatalogController.DeleteService", true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := ctrl.CatalogUsecase.DeleteService(ctx, session,
		chi.URLParam(r, constvars.URLParamProviderID),
		chi.URLParam(r, constvars.URLParamServiceID),
	)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "CatalogController.DeleteService", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccessDeleteService, nil)
}
