package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/shared/constants"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// UserLookup resolves the portal account named by the gateway header.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*portaluser.User, error)
}

// PortalUserMiddleware trusts the X-User-ID header set by the gateway and
// puts the user id in the gin context once the account is known.
type PortalUserMiddleware struct {
	users  UserLookup
	logger logger.Interface
}

func NewPortalUserMiddleware(users UserLookup, logger logger.Interface) *PortalUserMiddleware {
	return &PortalUserMiddleware{users: users, logger: logger}
}

// OptionalUser sets the user when the header names a known account and
// otherwise lets the request through anonymous.
func (m *PortalUserMiddleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := m.resolve(c); ok {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	}
}

func (m *PortalUserMiddleware) resolve(c *gin.Context) (uint, bool) {
	raw := c.GetHeader(constants.HeaderXUserID)
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		m.logger.Warnw("ignoring malformed user header", "value", raw)
		return 0, false
	}

	u, err := m.users.GetByID(c.Request.Context(), uint(v))
	if err != nil {
		m.logger.Errorw("failed to look up portal user", "user_id", v, "error", err)
		return 0, false
	}
	if u == nil {
		m.logger.Warnw("unknown portal user in header", "user_id", v)
		return 0, false
	}
	return u.ID, true
}
