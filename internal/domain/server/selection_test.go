package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	Repository
	active []*Server
	err    error
}

func (r *stubRepository) ListActive(ctx context.Context) ([]*Server, error) {
	return r.active, r.err
}

func makeServers(t *testing.T, n int) []*Server {
	t.Helper()
	servers := make([]*Server, 0, n)
	now := time.Now().UTC()
	for i := 1; i <= n; i++ {
		s, err := ReconstructServer(uint(i), "srv_test", "s.example.com", SchemeHTTP, "", "", "", true, n-i, now, now)
		require.NoError(t, err)
		servers = append(servers, s)
	}
	return servers
}

func TestRegistry_SelectServer_EmptyPool(t *testing.T) {
	registry := NewRegistry(&stubRepository{}, nil)

	_, err := registry.SelectServer(context.Background())

	assert.ErrorIs(t, err, ErrNoServerAvailable)
}

func TestRegistry_SelectServer_RepositoryError(t *testing.T) {
	boom := errors.New("db down")
	registry := NewRegistry(&stubRepository{err: boom}, nil)

	_, err := registry.SelectServer(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestRandomPolicy_RoughlyUniform(t *testing.T) {
	const k, draws = 4, 20000
	registry := NewRegistry(&stubRepository{active: makeServers(t, k)}, RandomPolicy{})

	counts := make(map[uint]int)
	for i := 0; i < draws; i++ {
		s, err := registry.SelectServer(context.Background())
		require.NoError(t, err)
		counts[s.ID()]++
	}

	require.Len(t, counts, k)
	expected := float64(draws) / k
	for id, c := range counts {
		assert.InDelta(t, expected, float64(c), expected*0.1, "server %d selected %d times", id, c)
	}
}

func TestSequencePolicy_PicksLowestSequence(t *testing.T) {
	servers := makeServers(t, 3) // sequences 2, 1, 0

	picked := SequencePolicy{}.Select(servers)

	assert.Equal(t, uint(3), picked.ID())
	assert.Equal(t, uint(1), servers[0].ID(), "input order is preserved")
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, SequencePolicy{}, PolicyByName("sequence"))
	assert.IsType(t, RandomPolicy{}, PolicyByName("random"))
	assert.IsType(t, RandomPolicy{}, PolicyByName(""))
}
