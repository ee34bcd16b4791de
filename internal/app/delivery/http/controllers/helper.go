package controllers

import (
	"context"
	"errors"
	"io"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// requestScope reads the request id and, when withSession is set, the session
// stored by the authentication middleware. It writes the error response itself
// and returns ok=false when either is missing.
func requestScope(log *zap.Logger, w http.ResponseWriter, r *http.Request, handlerName string, withSession bool) (string, *models.Session, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error(handlerName+" requestID not found in context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", nil, false
	}

	if !withSession {
		log.Info(handlerName+" called", zap.String(constvars.LoggingRequestIDKey, requestID))
		return requestID, nil, true
	}

	session, err := utils.GetSessionFromContext(r.Context())
	if err != nil {
		log.Error(handlerName+" session not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		utils.BuildErrorResponse(log, w, err)
		return "", nil, false
	}

	log.Info(handlerName+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)
	return requestID, session, true
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return exceptions.ErrCannotParseJSON(errors.New("empty request body"))
		}
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func writeError(log *zap.Logger, w http.ResponseWriter, requestID, handlerName string, err error) {
	log.Error(handlerName+" error",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
