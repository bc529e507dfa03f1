package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/server"
	apperrors "github.com/orris-inc/saasportal/internal/shared/errors"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
		wantCode int
	}{
		{"quota", &plan.QuotaExceededError{Kind: plan.QuotaTrial, Limit: 1, Current: 1}, apperrors.ErrorTypeQuotaExceeded, http.StatusConflict},
		{"server failed", &command.ServerCommandFailedError{Status: 400}, apperrors.ErrorTypeUpstream, http.StatusBadGateway},
		{"malformed", &command.MalformedResponseError{Err: errors.New("eof")}, apperrors.ErrorTypeUpstream, http.StatusBadGateway},
		{"delete unconfirmed", fmt.Errorf("x: %w", command.ErrDeletionUnconfirmed), apperrors.ErrorTypeUpstream, http.StatusBadGateway},
		{"no server", server.ErrNoServerAvailable, apperrors.ErrorTypeServiceUnavailable, http.StatusServiceUnavailable},
		{"server in use", server.ErrServerInUse, apperrors.ErrorTypeConflict, http.StatusConflict},
		{"plan draft", fmt.Errorf("%w: plan_x", plan.ErrPlanNotConfirmed), apperrors.ErrorTypeConflict, http.StatusConflict},
		{"no template", plan.ErrTemplateNotConfigured, apperrors.ErrorTypeBadRequest, http.StatusBadRequest},
		{"client missing", client.ErrClientNotFound, apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{"bad transition", client.ErrInvalidTransition(client.StateDeleted, client.StateOpen), apperrors.ErrorTypeConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperrors.GetAppError(TranslateError(tt.err))
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.wantType, got.Type)
				assert.Equal(t, tt.wantCode, got.Code)
			}
		})
	}
}

func TestTranslateError_KeepsCause(t *testing.T) {
	err := TranslateError(&plan.QuotaExceededError{Kind: plan.QuotaNormal, Limit: 2, Current: 2})
	assert.ErrorIs(t, err, plan.ErrQuotaExceeded)

	var quota *plan.QuotaExceededError
	assert.ErrorAs(t, err, &quota)
	assert.Equal(t, plan.QuotaNormal, quota.Kind)
}

func TestTranslateError_PassThrough(t *testing.T) {
	assert.Nil(t, TranslateError(nil))

	plain := errors.New("disk on fire")
	assert.Same(t, plain, TranslateError(plain))

	appErr := apperrors.NewValidationError("bad")
	assert.Same(t, appErr, TranslateError(appErr))
}
