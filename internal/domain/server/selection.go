package server

import (
	"context"
	"math/rand/v2"
	"sort"
)

// SelectionPolicy picks the server that receives new provisioning work.
// Implementations never see an empty slice.
type SelectionPolicy interface {
	Select(servers []*Server) *Server
}

// RandomPolicy picks uniformly at random, with no load awareness.
type RandomPolicy struct{}

func (RandomPolicy) Select(servers []*Server) *Server {
	return servers[rand.IntN(len(servers))]
}

// SequencePolicy picks the server with the lowest sequence, breaking ties by ID.
type SequencePolicy struct{}

func (SequencePolicy) Select(servers []*Server) *Server {
	sorted := make([]*Server, len(servers))
	copy(sorted, servers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Sequence() != sorted[j].Sequence() {
			return sorted[i].Sequence() < sorted[j].Sequence()
		}
		return sorted[i].ID() < sorted[j].ID()
	})
	return sorted[0]
}

// PolicyByName maps the configuration value to a policy. Unknown names fall back to random.
func PolicyByName(name string) SelectionPolicy {
	if name == "sequence" {
		return SequencePolicy{}
	}
	return RandomPolicy{}
}

// Registry hands out servers for new provisioning work.
type Registry struct {
	repo   Repository
	policy SelectionPolicy
}

func NewRegistry(repo Repository, policy SelectionPolicy) *Registry {
	if policy == nil {
		policy = RandomPolicy{}
	}
	return &Registry{repo: repo, policy: policy}
}

// SelectServer returns an active server chosen by the policy, or ErrNoServerAvailable.
func (r *Registry) SelectServer(ctx context.Context) (*Server, error) {
	servers, err := r.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, ErrNoServerAvailable
	}
	return r.policy.Select(servers), nil
}
