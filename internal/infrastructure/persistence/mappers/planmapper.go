package mappers

import (
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/mapper"
)

// PlanMapper converts between plan entities and persistence models.
type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*plan.Plan, error)
	ToModel(entity *plan.Plan) *models.PlanModel
	ToEntities(models []*models.PlanModel) ([]*plan.Plan, error)
}

type planMapper struct{}

func NewPlanMapper() PlanMapper {
	return &planMapper{}
}

func (m *planMapper) ToEntity(model *models.PlanModel) (*plan.Plan, error) {
	if model == nil {
		return nil, nil
	}

	attrs := plan.Attributes{
		Name:               model.Name,
		Summary:            model.Summary,
		WebsiteDescription: model.WebsiteDescription,
		DBNameTemplate:     model.DBNameTemplate,
		Defaults: client.Limits{
			MaxUsers:             model.MaxUsers,
			TotalStorageLimit:    model.TotalStorageLimit,
			BlockOnExpiration:    model.BlockOnExpiration,
			BlockOnStorageExceed: model.BlockOnStorageExceed,
		},
		MaxDBsPerPartner:      model.MaxDBsPerPartner,
		MaxTrialDBsPerPartner: model.MaxTrialDBsPerPartner,
		ExpirationHours:       model.ExpirationHours,
		GracePeriodDays:       model.GracePeriodDays,
		Lang:                  model.Lang,
		TZ:                    model.TZ,
		Demo:                  model.Demo,
		Sequence:              model.Sequence,
		ServerID:              model.ServerID,
	}

	entity, err := plan.ReconstructPlan(model.ID, model.SID, attrs, model.TemplateDatabaseID,
		plan.State(model.State), model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}
	return entity, nil
}

func (m *planMapper) ToModel(entity *plan.Plan) *models.PlanModel {
	if entity == nil {
		return nil
	}
	defaults := entity.Defaults()
	return &models.PlanModel{
		ID:                    entity.ID(),
		SID:                   entity.SID(),
		Name:                  entity.Name(),
		Summary:               entity.Summary(),
		WebsiteDescription:    entity.WebsiteDescription(),
		DBNameTemplate:        entity.DBNameTemplate(),
		MaxUsers:              defaults.MaxUsers,
		TotalStorageLimit:     defaults.TotalStorageLimit,
		BlockOnExpiration:     defaults.BlockOnExpiration,
		BlockOnStorageExceed:  defaults.BlockOnStorageExceed,
		MaxDBsPerPartner:      entity.MaxDBsPerPartner(),
		MaxTrialDBsPerPartner: entity.MaxTrialDBsPerPartner(),
		ExpirationHours:       entity.ExpirationHours(),
		GracePeriodDays:       entity.GracePeriodDays(),
		Lang:                  entity.Lang(),
		TZ:                    entity.TZ(),
		Demo:                  entity.Demo(),
		Sequence:              entity.Sequence(),
		ServerID:              entity.ServerID(),
		TemplateDatabaseID:    entity.TemplateDatabaseID(),
		State:                 string(entity.State()),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}
}

func (m *planMapper) ToEntities(items []*models.PlanModel) ([]*plan.Plan, error) {
	return mapper.MapRows(items, m.ToEntity, func(p *models.PlanModel) uint { return p.ID })
}
