package handlers

import (
	"context"

	plandto "github.com/orris-inc/saasportal/internal/application/plan/dto"
	planusecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
)

// Use case interfaces for PlanHandler

type createPlanUseCase interface {
	Execute(ctx context.Context, cmd planusecases.CreatePlanCommand) (*plandto.PlanDTO, error)
}

type updatePlanUseCase interface {
	Execute(ctx context.Context, cmd planusecases.UpdatePlanCommand) (*plandto.PlanDTO, error)
}

type getPlanUseCase interface {
	Execute(ctx context.Context, sid string) (*plandto.PlanDTO, error)
}

type listPlansUseCase interface {
	Execute(ctx context.Context, query planusecases.ListPlansQuery) (*plandto.ListPlansResult, error)
}

type getPublicPlansUseCase interface {
	Execute(ctx context.Context) ([]*plandto.PublicPlanDTO, error)
}

type buildTemplateUseCase interface {
	Execute(ctx context.Context, cmd planusecases.BuildTemplateCommand) (*plandto.TemplateResultDTO, error)
}

type deleteTemplateUseCase interface {
	Execute(ctx context.Context, cmd planusecases.DeleteTemplateCommand) (*plandto.TemplateResultDTO, error)
}

type generateNameUseCase interface {
	Execute(ctx context.Context, planSID string) (string, error)
}
