package server

import "errors"

var (
	ErrServerNotFound     = errors.New("saas server not found")
	ErrNoServerAvailable  = errors.New("no active saas server available")
	ErrServerInUse        = errors.New("saas server is referenced by live databases")
	ErrInvalidScheme      = errors.New("invalid request scheme")
	ErrDomainRequired     = errors.New("server domain is required")
	ErrServerDomainExists = errors.New("server domain already exists")
)
