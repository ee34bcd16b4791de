package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type SessionService interface {
	CreateSession(ctx context.Context, request *requests.CreateSession) (*responses.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
}
