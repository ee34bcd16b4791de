package utils

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
)

func GetSessionFromContext(ctx context.Context) (*models.Session, error) {
	session, ok := ctx.Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session)
	if !ok || session == nil {
		return nil, exceptions.ErrSessionNotFound(nil)
	}
	return session, nil
}

// CanManageProvider reports whether the session may edit the given provider's
// availability, services or appointments.
func CanManageProvider(session *models.Session, providerID string) bool {
	if session == nil {
		return false
	}
	switch session.Role {
	case constvars.RoleModerator:
		return true
	case constvars.RoleProvider:
		return session.ProviderID != "" && session.ProviderID == providerID
	default:
		return false
	}
}

func IsModerator(session *models.Session) bool {
	return session != nil && session.Role == constvars.RoleModerator
}
