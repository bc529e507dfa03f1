package server

import "context"

type Repository interface {
	Create(ctx context.Context, server *Server) error
	GetByID(ctx context.Context, id uint) (*Server, error)
	GetBySID(ctx context.Context, sid string) (*Server, error)
	GetByDomain(ctx context.Context, domain string) (*Server, error)
	Update(ctx context.Context, server *Server) error
	Delete(ctx context.Context, id uint) error
	ListActive(ctx context.Context) ([]*Server, error)
	List(ctx context.Context, filter Filter) ([]*Server, int64, error)
}

type Filter struct {
	Active   *bool
	Page     int
	PageSize int
}
