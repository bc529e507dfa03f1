// Package common holds what the application packages share at their boundary.
package common

import (
	"errors"
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
	apperrors "github.com/orris-inc/saasportal/internal/shared/errors"
)

// TranslateError maps domain failures to AppError values the HTTP layer can
// render. The original error stays reachable through errors.Is and errors.As.
// Unknown errors are returned unchanged and surface as internal errors.
func TranslateError(err error) error {
	if err == nil || apperrors.IsAppError(err) {
		return err
	}

	var quota *plan.QuotaExceededError
	var failed *command.ServerCommandFailedError
	var malformed *command.MalformedResponseError

	switch {
	case errors.As(err, &quota):
		return apperrors.NewQuotaExceededError("database quota exceeded", string(quota.Kind)).WithCause(err)
	case errors.As(err, &failed):
		return apperrors.NewUpstreamError("provisioning server rejected the command",
			fmt.Sprintf("status %d", failed.Status)).WithCause(err)
	case errors.As(err, &malformed):
		return apperrors.NewUpstreamError("provisioning server returned an unreadable response").WithCause(err)
	case errors.Is(err, command.ErrDeletionUnconfirmed):
		return apperrors.NewUpstreamError("remote deletion could not be confirmed, retry later").WithCause(err)

	case errors.Is(err, server.ErrNoServerAvailable):
		return apperrors.NewServiceUnavailableError("no provisioning server available").WithCause(err)
	case errors.Is(err, server.ErrServerInUse), errors.Is(err, server.ErrServerDomainExists):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, server.ErrServerNotFound):
		return apperrors.NewNotFoundError("server not found").WithCause(err)
	case errors.Is(err, server.ErrInvalidScheme), errors.Is(err, server.ErrDomainRequired):
		return apperrors.NewValidationError(err.Error()).WithCause(err)

	case errors.Is(err, plan.ErrPlanNotFound):
		return apperrors.NewNotFoundError("plan not found").WithCause(err)
	case errors.Is(err, plan.ErrPlanNotConfirmed), errors.Is(err, plan.ErrTemplateAlreadyDefined):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, plan.ErrTemplateNotConfigured), errors.Is(err, plan.ErrTemplateDBMissing),
		errors.Is(err, plan.ErrServerNotPinned):
		return apperrors.NewBadRequestError(err.Error()).WithCause(err)
	case errors.Is(err, plan.ErrNameRequired), errors.Is(err, plan.ErrInvalidLang),
		errors.Is(err, plan.ErrInvalidTimezone), errors.Is(err, plan.ErrNegativeLimit):
		return apperrors.NewValidationError(err.Error()).WithCause(err)

	case errors.Is(err, client.ErrClientNotFound), errors.Is(err, client.ErrDatabaseNotFound):
		return apperrors.NewNotFoundError(err.Error()).WithCause(err)
	case errors.Is(err, client.ErrInvalidStateTransition), errors.Is(err, client.ErrDatabaseDeleted),
		errors.Is(err, client.ErrStaleExpirationChange):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	case errors.Is(err, client.ErrNameRequired), errors.Is(err, client.ErrNegativeStorage),
		errors.Is(err, client.ErrServerNotAssigned):
		return apperrors.NewValidationError(err.Error()).WithCause(err)

	case errors.Is(err, portaluser.ErrUserNotFound):
		return apperrors.NewNotFoundError("portal user not found").WithCause(err)
	}

	return err
}
