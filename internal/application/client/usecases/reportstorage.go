package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/client/dto"
	"github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// ReportStorageCommand carries usage measured outside the portal, in megabytes.
type ReportStorageCommand struct {
	ClientSID   string
	FileStorage int64
	DBStorage   int64
}

// ReportStorageUsageUseCase records usage. The storage sweep acts on it later.
type ReportStorageUsageUseCase struct {
	guard  *clientGuard
	refs   *refResolver
	logger logger.Interface
}

func NewReportStorageUsageUseCase(
	clients client.Repository,
	servers ServerReader,
	plans PlanReader,
	locker services.Locker,
	settings DomainSettings,
	logger logger.Interface,
) *ReportStorageUsageUseCase {
	return &ReportStorageUsageUseCase{
		guard:  &clientGuard{clients: clients, locker: locker},
		refs:   &refResolver{servers: servers, plans: plans, settings: settings, logger: logger},
		logger: logger,
	}
}

func (uc *ReportStorageUsageUseCase) Execute(ctx context.Context, cmd ReportStorageCommand) (*dto.ClientDTO, error) {
	var updated *client.Client
	err := uc.guard.withClientSID(ctx, cmd.ClientSID, func(ctx context.Context, c *client.Client) error {
		if err := c.ReportStorage(cmd.FileStorage, cmd.DBStorage); err != nil {
			return common.TranslateError(err)
		}
		if err := uc.guard.clients.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debugw("client storage reported",
		"client_sid", updated.SID(),
		"file_storage", cmd.FileStorage,
		"db_storage", cmd.DBStorage,
	)
	return uc.refs.toDTO(ctx, updated), nil
}
