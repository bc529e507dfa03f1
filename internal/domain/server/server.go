package server

import (
	"fmt"
	"strings"
	"time"
)

// Server is a remote host able to create, delete and upgrade tenant databases.
type Server struct {
	id        uint
	sid       string
	domain    string
	scheme    Scheme
	host      string
	provider  string
	secret    string
	active    bool
	sequence  int
	createdAt time.Time
	updatedAt time.Time
}

func NewServer(sid, domain string, scheme Scheme, host, provider, secret string, sequence int) (*Server, error) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return nil, ErrDomainRequired
	}
	if scheme == "" {
		scheme = SchemeHTTP
	}
	if !scheme.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScheme, scheme)
	}

	now := time.Now().UTC()
	return &Server{
		sid:       sid,
		domain:    domain,
		scheme:    scheme,
		host:      host,
		provider:  provider,
		secret:    secret,
		active:    true,
		sequence:  sequence,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructServer(id uint, sid, domain string, scheme Scheme, host, provider, secret string,
	active bool, sequence int, createdAt, updatedAt time.Time) (*Server, error) {
	if id == 0 {
		return nil, fmt.Errorf("server ID cannot be zero")
	}
	if !scheme.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScheme, scheme)
	}

	return &Server{
		id:        id,
		sid:       sid,
		domain:    domain,
		scheme:    scheme,
		host:      host,
		provider:  provider,
		secret:    secret,
		active:    active,
		sequence:  sequence,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (s *Server) ID() uint             { return s.id }
func (s *Server) SID() string          { return s.sid }
func (s *Server) Domain() string       { return s.domain }
func (s *Server) Scheme() Scheme       { return s.scheme }
func (s *Server) Host() string         { return s.host }
func (s *Server) Provider() string     { return s.provider }
func (s *Server) Secret() string       { return s.secret }
func (s *Server) IsActive() bool       { return s.active }
func (s *Server) Sequence() int        { return s.sequence }
func (s *Server) CreatedAt() time.Time { return s.createdAt }
func (s *Server) UpdatedAt() time.Time { return s.updatedAt }

func (s *Server) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("server ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("server ID cannot be zero")
	}
	s.id = id
	return nil
}

// BaseURL is scheme://domain, the prefix of every command URL.
func (s *Server) BaseURL() string {
	return s.scheme.String() + "://" + s.domain
}

func (s *Server) Activate() {
	if !s.active {
		s.active = true
		s.touch()
	}
}

func (s *Server) Deactivate() {
	if s.active {
		s.active = false
		s.touch()
	}
}

func (s *Server) UpdateConnection(scheme Scheme, host, provider string) error {
	if !scheme.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidScheme, scheme)
	}
	s.scheme = scheme
	s.host = host
	s.provider = provider
	s.touch()
	return nil
}

func (s *Server) SetSequence(sequence int) {
	s.sequence = sequence
	s.touch()
}

// RotateSecret replaces the key used to sign command state for this server.
func (s *Server) RotateSecret(secret string) {
	s.secret = secret
	s.touch()
}

func (s *Server) touch() {
	s.updatedAt = time.Now().UTC()
}
