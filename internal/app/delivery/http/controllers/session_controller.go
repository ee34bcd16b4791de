package controllers

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type SessionController struct {
	Log            *zap.Logger
	SessionService contracts.SessionService
}

var (
	sessionControllerInstance *SessionController
	onceSessionController     sync.Once
)

func NewSessionController(logger *zap.Logger, sessionService contracts.SessionService) *SessionController {
	onceSessionController.Do(func() {
		sessionControllerInstance = &SessionController{
			Log:            logger,
			SessionService: sessionService,
		}
	})
	return sessionControllerInstance
}

// CreateSession issues a session token for a user the identity front end has
// already authenticated.
func (ctrl *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	requestID, _, ok := requestScope(ctrl.Log, w, r, "SessionController.CreateSession", false)
	if !ok {
		return
	}

	request := new(requests.CreateSession)
	if err := decodeJSON(r, request); err != nil {
		writeError(ctrl.Log, w, requestID, "SessionController.CreateSession", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.SessionService.CreateSession(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, requestID, "SessionController.CreateSession", err)
		return
	}

	ctrl.Log.Info("SessionController.CreateSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, request.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseSuccessCreateSession, response)
}
