package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
)

// SIDParam is the route parameter every resource path uses for its public ID.
const SIDParam = "sid"

// ParseSID reads the :sid path parameter and checks it carries prefix,
// e.g. "srv_" for servers. entity names the resource in error messages.
func ParseSID(c *gin.Context, prefix, entity string) (string, error) {
	sid := c.Param(SIDParam)
	if sid == "" {
		return "", errors.NewValidationError(entity + " ID is required")
	}
	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(fmt.Sprintf("invalid %s ID %q, expected %s_xxxxx", entity, sid, prefix))
	}
	return sid, nil
}
