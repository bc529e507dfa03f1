// Package id generates the public identifiers used by the portal: Stripe-style
// prefixed short IDs for records exposed through the API, and UUIDs for the
// client correlation tokens exchanged with provisioning servers.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

const (
	PrefixServer   = "srv"
	PrefixPlan     = "plan"
	PrefixDatabase = "db"
	PrefixClient   = "cli"
)

// Generate creates a cryptographically random Base62 string of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + id, nil
}

// ValidatePrefix checks that prefixedID is "<expectedPrefix>_<non-empty>".
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, shortID, ok := strings.Cut(prefixedID, "_")
	if !ok || shortID == "" {
		return fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	return nil
}

func NewServerSID() (string, error)   { return GenerateWithPrefix(PrefixServer, DefaultLength) }
func NewPlanSID() (string, error)     { return GenerateWithPrefix(PrefixPlan, DefaultLength) }
func NewDatabaseSID() (string, error) { return GenerateWithPrefix(PrefixDatabase, DefaultLength) }
func NewClientSID() (string, error)   { return GenerateWithPrefix(PrefixClient, DefaultLength) }

// NewCorrelationID returns the UUID a provisioning server uses to identify a database.
func NewCorrelationID() string {
	return uuid.NewString()
}

// IsCorrelationID reports whether s is a well-formed correlation UUID.
func IsCorrelationID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
