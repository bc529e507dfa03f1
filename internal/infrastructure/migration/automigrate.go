package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// Models lists every persisted model, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.ServerModel{},
		&models.DatabaseModel{},
		&models.PlanModel{},
		&models.PortalUserModel{},
		&models.ClientModel{},
		&models.SequenceModel{},
		&models.LockModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the models. The SQL scripts
// are written for MySQL, so sqlite and postgres deployments use this.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.auto")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	s.logger.Infow("auto migration completed", "models", len(Models()))
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
