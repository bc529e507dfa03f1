package handlers

import (
	"context"

	clientdto "github.com/orris-inc/saasportal/internal/application/client/dto"
	clientusecases "github.com/orris-inc/saasportal/internal/application/client/usecases"
	planusecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
)

// Use case interfaces for ClientHandler and PortalHandler

type createClientUseCase interface {
	Execute(ctx context.Context, cmd planusecases.CreateClientCommand) (*clientdto.ClientDTO, error)
}

type getClientUseCase interface {
	Execute(ctx context.Context, sid string) (*clientdto.ClientDTO, error)
}

type listClientsUseCase interface {
	Execute(ctx context.Context, query clientusecases.ListClientsQuery) (*clientdto.ListClientsResult, error)
}

type provisionClientUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.ProvisionClientCommand) (*clientdto.ProvisionResultDTO, error)
}

type duplicateClientUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.DuplicateClientCommand) (*clientdto.ProvisionResultDTO, error)
}

type deleteClientUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.DeleteClientCommand) error
}

type upgradeClientUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.UpgradeClientCommand) (map[string]any, error)
}

type changeExpirationUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.ChangeExpirationCommand) (*clientdto.ClientDTO, error)
}

type syncClientParamsUseCase interface {
	Execute(ctx context.Context, clientSID string) error
}

type reportStorageUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.ReportStorageCommand) (*clientdto.ClientDTO, error)
}

type checkNameUseCase interface {
	Execute(ctx context.Context, cmd clientusecases.CheckNameCommand) (*clientusecases.CheckNameResult, error)
	FullName(ctx context.Context, dbname, serverSID string) (string, error)
}
