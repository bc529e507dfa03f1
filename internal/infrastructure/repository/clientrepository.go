package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type ClientRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ClientMapper
	logger logger.Interface
}

func NewClientRepository(db *gorm.DB, logger logger.Interface) client.Repository {
	return &ClientRepositoryImpl{
		db:     db,
		mapper: mappers.NewClientMapper(),
		logger: logger,
	}
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, c *client.Client) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create client", "error", err, "name", c.Name())
		return fmt.Errorf("failed to create client: %w", err)
	}
	if err := c.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("client created successfully", "client_id", model.ID, "name", c.Name(), "correlation_id", c.ClientID())
	return nil
}

// Update writes every column, including the active projection.
func (r *ClientRepositoryImpl) Update(ctx context.Context, c *client.Client) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ClientModel{}).
		Where("id = ?", c.ID()).
		Select("*").Omit("id", "sid", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update client", "error", result.Error, "client_id", c.ID())
		return fmt.Errorf("failed to update client: %w", result.Error)
	}
	return nil
}

func (r *ClientRepositoryImpl) GetByID(ctx context.Context, id uint) (*client.Client, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *ClientRepositoryImpl) GetBySID(ctx context.Context, sid string) (*client.Client, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid))
}

func (r *ClientRepositoryImpl) GetByClientID(ctx context.Context, clientID string) (*client.Client, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("client_id = ?", clientID))
}

func (r *ClientRepositoryImpl) first(query *gorm.DB) (*client.Client, error) {
	var model models.ClientModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get client", "error", err)
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ClientRepositoryImpl) NameTaken(ctx context.Context, name string) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var clients int64
	if err := tx.Model(&models.ClientModel{}).Scopes(db.Live()).Where("name = ?", name).Count(&clients).Error; err != nil {
		return false, fmt.Errorf("failed to check client name: %w", err)
	}
	if clients > 0 {
		return true, nil
	}

	var templates int64
	if err := tx.Model(&models.DatabaseModel{}).Scopes(db.Live()).Where("name = ?", name).Count(&templates).Error; err != nil {
		return false, fmt.Errorf("failed to check database name: %w", err)
	}
	return templates > 0, nil
}

func (r *ClientRepositoryImpl) CountOpen(ctx context.Context, partnerID, planID uint, trial bool) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ClientModel{}).
		Where("partner_id = ? AND plan_id = ? AND state = ? AND trial = ?", partnerID, planID, string(client.StateOpen), trial).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count open clients", "error", err, "partner_id", partnerID, "plan_id", planID)
		return 0, fmt.Errorf("failed to count open clients: %w", err)
	}
	return count, nil
}

func (r *ClientRepositoryImpl) CountLiveByServer(ctx context.Context, serverID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.ClientModel{}).
		Scopes(db.Live()).
		Where("server_id = ?", serverID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count clients on server: %w", err)
	}
	return count, nil
}

func (r *ClientRepositoryImpl) FindExpiredUnflagged(ctx context.Context, now time.Time) ([]*client.Client, error) {
	return r.find(ctx, "expired clients", func(q *gorm.DB) *gorm.DB {
		return q.Where("expiration_datetime IS NOT NULL AND expiration_datetime < ? AND expired = ?", now.UTC(), false)
	})
}

func (r *ClientRepositoryImpl) FindExpiringUnnotified(ctx context.Context, until time.Time) ([]*client.Client, error) {
	return r.find(ctx, "expiring clients", func(q *gorm.DB) *gorm.DB {
		return q.Where("expiration_datetime IS NOT NULL AND expiration_datetime <= ? AND notification_sent = ?", until.UTC(), false)
	})
}

func (r *ClientRepositoryImpl) FindStorageCandidates(ctx context.Context) ([]*client.Client, error) {
	return r.find(ctx, "storage candidates", func(q *gorm.DB) *gorm.DB {
		return q.Where("total_storage_limit > ? OR storage_exceed = ?", 0, true)
	})
}

func (r *ClientRepositoryImpl) find(ctx context.Context, what string, scope func(*gorm.DB) *gorm.DB) ([]*client.Client, error) {
	var items []*models.ClientModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.Live(), scope).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		r.logger.Errorw("failed to find "+what, "error", err)
		return nil, fmt.Errorf("failed to find %s: %w", what, err)
	}
	return r.mapper.ToEntities(items)
}

func (r *ClientRepositoryImpl) List(ctx context.Context, filter client.Filter) ([]*client.Client, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.ClientModel{})
	if filter.PartnerID != nil {
		query = query.Where("partner_id = ?", *filter.PartnerID)
	}
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.State != nil {
		query = query.Where("state = ?", string(*filter.State))
	}
	if filter.Trial != nil {
		query = query.Where("trial = ?", *filter.Trial)
	}
	if filter.Expired != nil {
		query = query.Where("expired = ?", *filter.Expired)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count clients", "error", err)
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var items []*models.ClientModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).Order("id DESC").Find(&items).Error; err != nil {
		r.logger.Errorw("failed to list clients", "error", err)
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	entities, err := r.mapper.ToEntities(items)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
