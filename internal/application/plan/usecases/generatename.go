package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/saasportal/internal/application/common"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// PlanSequenceName is the counter shared by every plan's name template.
const PlanSequenceName = "plan"

// GenerateNameUseCase produces the next database name from a plan template.
type GenerateNameUseCase struct {
	plans    plan.Repository
	sequence plan.Sequence
	logger   logger.Interface
}

func NewGenerateNameUseCase(plans plan.Repository, sequence plan.Sequence, logger logger.Interface) *GenerateNameUseCase {
	return &GenerateNameUseCase{plans: plans, sequence: sequence, logger: logger}
}

func (uc *GenerateNameUseCase) Execute(ctx context.Context, planSID string) (string, error) {
	p, err := uc.plans.GetBySID(ctx, planSID)
	if err != nil {
		return "", fmt.Errorf("failed to get plan: %w", err)
	}
	if p == nil {
		return "", errors.NewNotFoundError("plan not found", planSID)
	}
	return generateName(ctx, uc.sequence, p)
}

func generateName(ctx context.Context, sequence plan.Sequence, p *plan.Plan) (string, error) {
	if p.DBNameTemplate() == "" {
		return "", common.TranslateError(plan.ErrTemplateNotConfigured)
	}
	seq, err := sequence.Next(ctx, PlanSequenceName)
	if err != nil {
		return "", fmt.Errorf("failed to get next name sequence: %w", err)
	}
	name, err := p.GenerateName(seq)
	if err != nil {
		return "", common.TranslateError(err)
	}
	return name, nil
}
