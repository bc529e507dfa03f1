// Package dto holds the server shapes returned by the application layer.
package dto

import (
	"time"

	"github.com/orris-inc/saasportal/internal/domain/server"
)

// ServerDTO never carries the signing secret.
type ServerDTO struct {
	SID       string    `json:"id"`
	Domain    string    `json:"domain"`
	Scheme    string    `json:"scheme"`
	Host      string    `json:"host,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	BaseURL   string    `json:"base_url"`
	Active    bool      `json:"active"`
	Sequence  int       `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToServerDTO(s *server.Server) *ServerDTO {
	if s == nil {
		return nil
	}
	return &ServerDTO{
		SID:       s.SID(),
		Domain:    s.Domain(),
		Scheme:    s.Scheme().String(),
		Host:      s.Host(),
		Provider:  s.Provider(),
		BaseURL:   s.BaseURL(),
		Active:    s.IsActive(),
		Sequence:  s.Sequence(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func ToServerDTOs(servers []*server.Server) []*ServerDTO {
	out := make([]*ServerDTO, 0, len(servers))
	for _, s := range servers {
		out = append(out, ToServerDTO(s))
	}
	return out
}

type ListServersResult struct {
	Servers []*ServerDTO
	Total   int64
}
