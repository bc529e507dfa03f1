package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// DeleteServerUseCase removes a server no live client or template database references.
type DeleteServerUseCase struct {
	servers   server.Repository
	clients   UsageCounter
	templates UsageCounter
	logger    logger.Interface
}

func NewDeleteServerUseCase(
	servers server.Repository,
	clients UsageCounter,
	templates UsageCounter,
	logger logger.Interface,
) *DeleteServerUseCase {
	return &DeleteServerUseCase{servers: servers, clients: clients, templates: templates, logger: logger}
}

func (uc *DeleteServerUseCase) Execute(ctx context.Context, sid string) error {
	srv, err := loadServer(ctx, uc.servers, sid)
	if err != nil {
		return err
	}

	var live int64
	for _, counter := range []UsageCounter{uc.clients, uc.templates} {
		n, err := counter.CountLiveByServer(ctx, srv.ID())
		if err != nil {
			return fmt.Errorf("failed to count server databases: %w", err)
		}
		live += n
	}
	if live > 0 {
		uc.logger.Warnw("refusing to delete server with live databases", "server_sid", sid, "live", live)
		return common.TranslateError(fmt.Errorf("%w: %d live databases", server.ErrServerInUse, live))
	}

	if err := uc.servers.Delete(ctx, srv.ID()); err != nil {
		uc.logger.Errorw("failed to delete server", "server_sid", sid, "error", err)
		return fmt.Errorf("failed to delete server: %w", err)
	}
	uc.logger.Infow("server deleted", "server_sid", sid, "domain", srv.Domain())
	return nil
}
