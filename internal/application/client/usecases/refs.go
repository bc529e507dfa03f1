package usecases

import (
	"context"

	"github.com/orris-inc/saasportal/internal/application/client/dto"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// refResolver fills the DTO references a client only stores as IDs.
type refResolver struct {
	servers  ServerReader
	plans    PlanReader
	settings DomainSettings
	logger   logger.Interface
}

func (r *refResolver) resolve(ctx context.Context, c *client.Client) dto.Refs {
	refs := dto.Refs{BaseDomain: r.settings.BaseDomain}

	if c.PlanID() != nil {
		p, err := r.plans.GetByID(ctx, *c.PlanID())
		if err != nil {
			r.logger.Warnw("failed to resolve client plan", "client_sid", c.SID(), "error", err)
		} else if p != nil {
			refs.PlanSID = p.SID()
		}
	}

	if c.ServerID() != nil {
		srv, err := r.servers.GetByID(ctx, *c.ServerID())
		if err != nil {
			r.logger.Warnw("failed to resolve client server", "client_sid", c.SID(), "error", err)
		} else if srv != nil {
			refs.ServerSID = srv.SID()
			refs.Scheme = srv.Scheme().String()
			if refs.BaseDomain == "" {
				refs.BaseDomain = srv.Domain()
			}
		}
	}
	return refs
}

func (r *refResolver) toDTO(ctx context.Context, c *client.Client) *dto.ClientDTO {
	return dto.ToClientDTO(c, r.resolve(ctx, c))
}
