package models

import (
	"time"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

// PlanModel is the persistence model of a SaaS plan.
type PlanModel struct {
	ID                    uint   `gorm:"primarykey"`
	SID                   string `gorm:"column:sid;uniqueIndex;not null;size:50"`
	Name                  string `gorm:"not null;size:100"`
	Summary               string `gorm:"size:500"`
	WebsiteDescription    string `gorm:"type:text"`
	DBNameTemplate        string `gorm:"column:dbname_template;size:255"`
	MaxUsers              int    `gorm:"not null;default:0"`
	TotalStorageLimit     int64  `gorm:"not null;default:0"`
	BlockOnExpiration     bool   `gorm:"not null;default:false"`
	BlockOnStorageExceed  bool   `gorm:"not null;default:false"`
	MaxDBsPerPartner      int    `gorm:"column:max_dbs_per_partner;not null;default:0"`
	MaxTrialDBsPerPartner int    `gorm:"column:max_trial_dbs_per_partner;not null;default:0"`
	ExpirationHours       int    `gorm:"not null;default:0"`
	GracePeriodDays       int    `gorm:"not null;default:0"`
	Lang                  string `gorm:"size:20"`
	TZ                    string `gorm:"column:tz;size:64"`
	Demo                  bool   `gorm:"not null;default:false"`
	Sequence              int    `gorm:"not null;default:10;index"`
	ServerID              *uint  `gorm:"index"`
	TemplateDatabaseID    *uint  `gorm:"index"`
	State                 string `gorm:"not null;size:20;default:draft;index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}
