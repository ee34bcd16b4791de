package storage

import (
	"context"
	"fmt"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioStorage struct {
	MinioClient *minio.Client
	// PublicBaseUrl overrides the client endpoint in returned object urls
	PublicBaseUrl string
	Log           *zap.Logger
}

var (
	minioStorageInstance contracts.Storage
	onceMinioStorage     sync.Once
)

func NewMinioStorage(minioClient *minio.Client, publicBaseUrl string, logger *zap.Logger) contracts.Storage {
	onceMinioStorage.Do(func() {
		minioStorageInstance = &minioStorage{
			MinioClient:   minioClient,
			PublicBaseUrl: publicBaseUrl,
			Log:           logger,
		}
	})
	return minioStorageInstance
}

// UploadFile stores the object and returns its url.
func (m *minioStorage) UploadFile(ctx context.Context, file io.Reader, objectSize int64, bucketName, objectName, contentType string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	m.Log.Info("minioStorage.UploadFile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, bucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)

	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	info, err := m.MinioClient.PutObject(ctx, bucketName, objectName, file, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		m.Log.Error("minioStorage.UploadFile error putting object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}

	baseUrl := m.PublicBaseUrl
	if baseUrl == "" {
		baseUrl = m.MinioClient.EndpointURL().String()
	}
	objectUrl := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(baseUrl, "/"), info.Bucket, info.Key)

	m.Log.Info("minioStorage.UploadFile succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, info.Key),
	)
	return objectUrl, nil
}
