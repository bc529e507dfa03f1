package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// NameLookup is the subset of client.Repository the signup check needs.
type NameLookup interface {
	NameTaken(ctx context.Context, name string) (bool, error)
}

type CheckNameCommand struct {
	DBName string
	// ServerSID selects the server whose domain suffixes the name.
	ServerSID string
}

type CheckNameResult struct {
	FullName  string
	Available bool
}

// CheckNameUseCase expands a signup name to its full database name and
// reports whether it is still free.
type CheckNameUseCase struct {
	names    NameLookup
	servers  ServerReader
	settings DomainSettings
	logger   logger.Interface
}

func NewCheckNameUseCase(names NameLookup, servers ServerReader, settings DomainSettings, logger logger.Interface) *CheckNameUseCase {
	return &CheckNameUseCase{names: names, servers: servers, settings: settings, logger: logger}
}

func (uc *CheckNameUseCase) Execute(ctx context.Context, cmd CheckNameCommand) (*CheckNameResult, error) {
	full, err := uc.FullName(ctx, cmd.DBName, cmd.ServerSID)
	if err != nil {
		return nil, err
	}
	taken, err := uc.names.NameTaken(ctx, full)
	if err != nil {
		uc.logger.Errorw("failed to check database name", "name", full, "error", err)
		return nil, fmt.Errorf("failed to check database name: %w", err)
	}
	return &CheckNameResult{FullName: full, Available: !taken}, nil
}

// FullName suffixes dbname with the domain of the given server, falling back
// to the base domain when the server is unset or unknown.
func (uc *CheckNameUseCase) FullName(ctx context.Context, dbname, serverSID string) (string, error) {
	domain := uc.settings.BaseDomain
	if serverSID != "" {
		srv, err := uc.servers.GetBySID(ctx, serverSID)
		if err != nil {
			return "", fmt.Errorf("failed to get server: %w", err)
		}
		if srv != nil {
			domain = srv.Domain()
		}
	}
	full := client.FullName(dbname, domain)
	if full == "" {
		return "", errors.NewValidationError("database name is required")
	}
	return full, nil
}
