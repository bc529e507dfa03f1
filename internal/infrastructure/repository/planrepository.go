package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) plan.Repository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, p *plan.Plan) error {
	model := r.mapper.ToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "name", p.Name())
		return fmt.Errorf("failed to create plan: %w", err)
	}
	if err := p.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("plan created successfully", "plan_id", model.ID, "name", p.Name())
	return nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, p *plan.Plan) error {
	model := r.mapper.ToModel(p)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{}).
		Where("id = ?", p.ID()).
		Select("*").Omit("id", "sid", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "error", result.Error, "plan_id", p.ID())
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *PlanRepositoryImpl) GetBySID(ctx context.Context, sid string) (*plan.Plan, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid))
}

func (r *PlanRepositoryImpl) FirstConfirmed(ctx context.Context) (*plan.Plan, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Where("state = ?", string(plan.StateConfirmed)).
		Order("sequence ASC, id ASC"))
}

func (r *PlanRepositoryImpl) first(query *gorm.DB) (*plan.Plan, error) {
	var model models.PlanModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan", "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) List(ctx context.Context, filter plan.Filter) ([]*plan.Plan, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{})
	if filter.State != nil {
		query = query.Where("state = ?", string(*filter.State))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count plans", "error", err)
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	var items []*models.PlanModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).Order("sequence ASC, id ASC").Find(&items).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}

	entities, err := r.mapper.ToEntities(items)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
