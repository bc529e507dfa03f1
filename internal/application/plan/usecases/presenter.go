package usecases

import (
	"context"

	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

// planPresenter resolves plan references and renders the description.
// Lookup failures degrade to empty fields.
type planPresenter struct {
	servers   ServerReader
	templates TemplateRepository
	renderer  markdown.Renderer
	logger    logger.Interface
}

func (pr *planPresenter) toDTO(ctx context.Context, p *plan.Plan) *dto.PlanDTO {
	var refs dto.Refs

	if p.ServerID() != nil {
		srv, err := pr.servers.GetByID(ctx, *p.ServerID())
		if err != nil {
			pr.logger.Warnw("failed to resolve plan server", "plan_sid", p.SID(), "error", err)
		} else if srv != nil {
			refs.ServerSID = srv.SID()
		}
	}

	if p.TemplateDatabaseID() != nil {
		tpl, err := pr.templates.GetByID(ctx, *p.TemplateDatabaseID())
		if err != nil {
			pr.logger.Warnw("failed to resolve plan template", "plan_sid", p.SID(), "error", err)
		} else if tpl != nil {
			refs.TemplateSID = tpl.SID()
			refs.TemplateName = tpl.Name()
		}
	}

	return dto.ToPlanDTO(p, refs, pr.render(p))
}

func (pr *planPresenter) render(p *plan.Plan) string {
	if pr.renderer == nil {
		return ""
	}
	html, err := pr.renderer.Render(p.WebsiteDescription())
	if err != nil {
		pr.logger.Warnw("failed to render plan description", "plan_sid", p.SID(), "error", err)
		return ""
	}
	return html
}
