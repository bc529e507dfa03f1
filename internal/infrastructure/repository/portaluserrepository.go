package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/db"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

type PortalUserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPortalUserRepository(db *gorm.DB, logger logger.Interface) portaluser.Repository {
	return &PortalUserRepositoryImpl{db: db, logger: logger}
}

func (r *PortalUserRepositoryImpl) GetByID(ctx context.Context, id uint) (*portaluser.User, error) {
	var model models.PortalUserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get portal user", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get portal user: %w", err)
	}
	return &portaluser.User{
		ID:        model.ID,
		PartnerID: model.PartnerID,
		Login:     model.Login,
		Name:      model.Name,
		Email:     model.Email,
	}, nil
}

func (r *PortalUserRepositoryImpl) Upsert(ctx context.Context, u *portaluser.User) error {
	model := &models.PortalUserModel{
		ID:        u.ID,
		PartnerID: u.PartnerID,
		Login:     u.Login,
		Name:      u.Name,
		Email:     u.Email,
	}
	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"partner_id", "login", "name", "email", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert portal user", "error", err, "login", u.Login)
		return fmt.Errorf("failed to upsert portal user: %w", err)
	}
	u.ID = model.ID
	return nil
}
