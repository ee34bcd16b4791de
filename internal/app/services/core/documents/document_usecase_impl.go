package documents

import (
	"context"
	"fmt"
	"io"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"mime/multipart"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const defaultMaxUploadSizeInMB = 10

type documentUsecase struct {
	AppointmentUsecase    contracts.AppointmentUsecase
	AppointmentRepository contracts.AppointmentRepository
	Storage               contracts.Storage
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	documentUsecaseInstance contracts.DocumentUsecase
	onceDocumentUsecase     sync.Once
)

func NewDocumentUsecase(
	appointmentUsecase contracts.AppointmentUsecase,
	appointmentRepository contracts.AppointmentRepository,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.DocumentUsecase {
	onceDocumentUsecase.Do(func() {
		documentUsecaseInstance = &documentUsecase{
			AppointmentUsecase:    appointmentUsecase,
			AppointmentRepository: appointmentRepository,
			Storage:               storage,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
	})
	return documentUsecaseInstance
}

// UploadDocument stores file under <kind>/<appointmentID>/ and appends its URL
// to the matching document list of the appointment.
func (uc *documentUsecase) UploadDocument(ctx context.Context, session *models.Session, appointmentID string, kind models.DocumentKind, file io.Reader, fileHeader *multipart.FileHeader) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("documentUsecase.UploadDocument called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingDocumentKindKey, string(kind)),
	)

	if _, ok := models.ParseDocumentKind(string(kind)); !ok {
		return nil, exceptions.ErrValidationField(constvars.URLParamDocumentKind, "must be one of [reports, bills, prescriptions]")
	}
	if fileHeader == nil {
		return nil, exceptions.ErrValidationField(constvars.FormFieldDocumentFile, constvars.CustomValidationErrorMessages["required"])
	}
	if fileHeader.Size > uc.maxUploadSize() {
		return nil, exceptions.ErrFileTooLarge(fmt.Errorf("file is %d bytes", fileHeader.Size))
	}

	appointment, err := uc.AppointmentUsecase.FindAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != session.UserID && !utils.CanManageProvider(session, appointment.ProviderID) {
		return nil, exceptions.ErrForbidden(nil)
	}
	if !appointment.Status.IsSettled() {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientDocumentsNotAllowed, fmt.Sprintf("appointment is %s", appointment.Status))
	}

	contentType := fileHeader.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}
	objectName := utils.GenerateObjectName(string(kind), appointment.ID, filepath.Ext(fileHeader.Filename))
	bucketName := uc.InternalConfig.Minio.BucketName

	url, err := uc.Storage.UploadFile(ctx, file, fileHeader.Size, bucketName, objectName, contentType)
	if err != nil {
		uc.Log.Error("documentUsecase.UploadDocument error uploading file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketNameKey, bucketName),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := uc.AppointmentRepository.AppendDocument(ctx, appointment.ID, kind, url)
	if err != nil {
		uc.Log.Error("documentUsecase.UploadDocument error saving document url",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrNotFound(nil, "appointment", constvars.ErrClientAppointmentNotFound)
	}

	uc.Log.Info("documentUsecase.UploadDocument succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	response := utils.MapAppointmentToResponse(updated)
	return &response, nil
}

func (uc *documentUsecase) maxUploadSize() int64 {
	sizeInMB := uc.InternalConfig.Minio.DocumentMaxUploadSizeInMB
	if sizeInMB <= 0 {
		sizeInMB = defaultMaxUploadSizeInMB
	}
	return sizeInMB << 20
}
