package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	s, err := NewServer("srv_abc", "  Node1.Example.COM ", "", "10.0.0.1", "hetzner", "secret", 3)
	require.NoError(t, err)

	assert.Equal(t, "node1.example.com", s.Domain())
	assert.Equal(t, SchemeHTTP, s.Scheme())
	assert.True(t, s.IsActive())
	assert.Equal(t, "http://node1.example.com", s.BaseURL())
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer("srv_abc", "", SchemeHTTPS, "", "", "", 0)
	assert.ErrorIs(t, err, ErrDomainRequired)

	_, err = NewServer("srv_abc", "example.com", Scheme("ftp"), "", "", "", 0)
	assert.ErrorIs(t, err, ErrInvalidScheme)
}

func TestServer_ActivateDeactivate(t *testing.T) {
	s, err := NewServer("srv_abc", "example.com", SchemeHTTPS, "", "", "", 0)
	require.NoError(t, err)

	s.Deactivate()
	assert.False(t, s.IsActive())
	s.Activate()
	assert.True(t, s.IsActive())
}

func TestServer_UpdateConnection(t *testing.T) {
	s, err := NewServer("srv_abc", "example.com", SchemeHTTP, "", "", "", 0)
	require.NoError(t, err)

	require.NoError(t, s.UpdateConnection(SchemeHTTPS, "10.0.0.2", "ovh"))
	assert.Equal(t, "https://example.com", s.BaseURL())
	assert.Equal(t, "ovh", s.Provider())

	assert.ErrorIs(t, s.UpdateConnection(Scheme("gopher"), "", ""), ErrInvalidScheme)
}
