package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerDatetimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	local := time.Date(2026, 3, 1, 8, 30, 0, 0, loc)

	s := FormatServerDatetime(&local)
	assert.Equal(t, "2026-03-01 00:30:00", s)

	parsed, err := ParseServerDatetime(s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(local))
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestFormatServerDatetime_Nil(t *testing.T) {
	assert.Equal(t, "", FormatServerDatetime(nil))
}

func TestParseServerDatetime_Invalid(t *testing.T) {
	_, err := ParseServerDatetime("2026-03-01T00:30:00Z")
	assert.Error(t, err)
}

func TestNowUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NowUTC().Location())
}
