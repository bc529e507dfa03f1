package dispatcher

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
)

// StateClaims wraps the command state in a short-lived signed token.
type StateClaims struct {
	State command.State `json:"state"`
	jwt.RegisteredClaims
}

// StateSigner signs command state with HS256. A server's own secret takes
// precedence over the portal-wide fallback.
type StateSigner struct {
	fallback []byte
	issuer   string
	ttl      time.Duration
}

func NewStateSigner(fallbackSecret, issuer string, ttl time.Duration) *StateSigner {
	return &StateSigner{
		fallback: []byte(fallbackSecret),
		issuer:   issuer,
		ttl:      ttl,
	}
}

func (s *StateSigner) key(serverSecret string) []byte {
	if serverSecret != "" {
		return []byte(serverSecret)
	}
	return s.fallback
}

func (s *StateSigner) Sign(serverSecret, clientID string, state command.State) (string, error) {
	key := s.key(serverSecret)
	if len(key) == 0 {
		return "", fmt.Errorf("no signing secret configured")
	}

	now := biztime.NowUTC()
	claims := &StateClaims{
		State: state,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign command state: %w", err)
	}
	return signed, nil
}

// Verify parses a signed state. Provisioning servers do the same on their side;
// the portal uses it in tests and diagnostics.
func (s *StateSigner) Verify(serverSecret, token string) (*StateClaims, error) {
	key := s.key(serverSecret)
	parsed, err := jwt.ParseWithClaims(token, &StateClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse command state: %w", err)
	}

	if claims, ok := parsed.Claims.(*StateClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid command state")
}
