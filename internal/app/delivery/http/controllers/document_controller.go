package controllers

import (
	"context"
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DocumentController struct {
	Log             *zap.Logger
	DocumentUsecase contracts.DocumentUsecase
	InternalConfig  *config.InternalConfig
}

var (
	documentControllerInstance *DocumentController
	onceDocumentController     sync.Once
)

func NewDocumentController(logger *zap.Logger, documentUsecase contracts.DocumentUsecase, internalConfig *config.InternalConfig) *DocumentController {
	onceDocumentController.Do(func() {
		documentControllerInstance = &DocumentController{
			Log:             logger,
			DocumentUsecase: documentUsecase,
			InternalConfig:  internalConfig,
		}
	})
	return documentControllerInstance
}

func (ctrl *DocumentController) UploadDocument(w http.ResponseWriter, r *http.Request) {
	requestID, session, ok := requestScope(ctrl.Log, w, r, "DocumentController.UploadDocument", true)
	if !ok {
		return
	}

	maxSize := ctrl.InternalConfig.Minio.DocumentMaxUploadSizeInMB << 20
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	// Leave room for the multipart envelope; the usecase checks the file size itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrFileTooLarge(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	file, fileHeader, err := r.FormFile(constvars.FormFieldDocumentFile)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrValidationField(constvars.FormFieldDocumentFile, constvars.CustomValidationErrorMessages["required"]))
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	kind := models.DocumentKind(chi.URLParam(r, constvars.URLParamDocumentKind))
	appointment, err := ctrl.DocumentUsecase.UploadDocument(ctx, session, chi.URLParam(r, constvars.URLParamAppointmentID), kind, file, fileHeader)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "DocumentController.UploadDocument", err)
		return
	}

	ctrl.Log.Info("DocumentController.UploadDocument succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentKindKey, string(kind)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseSuccessUploadDocument, appointment)
}
