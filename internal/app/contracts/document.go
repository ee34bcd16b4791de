package contracts

import (
	"context"
	"io"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/responses"
	"mime/multipart"
)

type DocumentUsecase interface {
	UploadDocument(ctx context.Context, session *models.Session, appointmentID string, kind models.DocumentKind, file io.Reader, fileHeader *multipart.FileHeader) (*responses.Appointment, error)
}

type Storage interface {
	UploadFile(ctx context.Context, file io.Reader, objectSize int64, bucketName, objectName, contentType string) (string, error)
}
