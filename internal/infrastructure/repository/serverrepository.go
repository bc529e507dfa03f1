package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
	apperrors "github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type ServerRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ServerMapper
	logger logger.Interface
}

func NewServerRepository(db *gorm.DB, logger logger.Interface) server.Repository {
	return &ServerRepositoryImpl{
		db:     db,
		mapper: mappers.NewServerMapper(),
		logger: logger,
	}
}

func (r *ServerRepositoryImpl) Create(ctx context.Context, srv *server.Server) error {
	model := r.mapper.ToModel(srv)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return server.ErrServerDomainExists
		}
		r.logger.Errorw("failed to create server", "error", err, "domain", srv.Domain())
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("server created successfully", "server_id", model.ID, "domain", srv.Domain())
	return nil
}

func (r *ServerRepositoryImpl) GetByID(ctx context.Context, id uint) (*server.Server, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ServerRepositoryImpl) GetBySID(ctx context.Context, sid string) (*server.Server, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *ServerRepositoryImpl) GetByDomain(ctx context.Context, domain string) (*server.Server, error) {
	return r.first(ctx, "domain = ?", domain)
}

func (r *ServerRepositoryImpl) first(ctx context.Context, query string, arg any) (*server.Server, error) {
	var model models.ServerModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get server", "error", err, "query", query, "arg", arg)
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ServerRepositoryImpl) Update(ctx context.Context, srv *server.Server) error {
	model := r.mapper.ToModel(srv)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ServerModel{}).
		Where("id = ?", srv.ID()).
		Updates(map[string]interface{}{
			"scheme":     model.Scheme,
			"host":       model.Host,
			"provider":   model.Provider,
			"secret":     model.Secret,
			"active":     model.Active,
			"sequence":   model.Sequence,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update server", "error", result.Error, "server_id", srv.ID())
		return fmt.Errorf("failed to update server: %w", result.Error)
	}
	return nil
}

func (r *ServerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.ServerModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete server", "error", result.Error, "server_id", id)
		return fmt.Errorf("failed to delete server: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return server.ErrServerNotFound
	}

	r.logger.Infow("server deleted successfully", "server_id", id)
	return nil
}

func (r *ServerRepositoryImpl) ListActive(ctx context.Context) ([]*server.Server, error) {
	var items []*models.ServerModel
	if err := db.GetTxFromContext(ctx, r.db).Where("active = ?", true).Order("sequence ASC, id ASC").Find(&items).Error; err != nil {
		r.logger.Errorw("failed to list active servers", "error", err)
		return nil, fmt.Errorf("failed to list active servers: %w", err)
	}
	return r.mapper.ToEntities(items)
}

func (r *ServerRepositoryImpl) List(ctx context.Context, filter server.Filter) ([]*server.Server, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ServerModel{})
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count servers", "error", err)
		return nil, 0, fmt.Errorf("failed to count servers: %w", err)
	}

	var items []*models.ServerModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).Order("sequence ASC, id ASC").Find(&items).Error; err != nil {
		r.logger.Errorw("failed to list servers", "error", err)
		return nil, 0, fmt.Errorf("failed to list servers: %w", err)
	}

	entities, err := r.mapper.ToEntities(items)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
