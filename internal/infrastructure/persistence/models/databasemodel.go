package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

// DatabaseModel stores plan template databases.
type DatabaseModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"column:sid;uniqueIndex;not null;size:50"`
	Name        string `gorm:"not null;size:255;index"`
	ClientID    string `gorm:"uniqueIndex;not null;size:64"`
	ServerID    *uint  `gorm:"index"`
	State       string `gorm:"not null;size:20;default:draft"`
	Active      bool   `gorm:"not null;default:true;index"`
	Password    string `gorm:"size:255"`
	RemoteState datatypes.JSON
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DatabaseModel) TableName() string {
	return constants.TableDatabases
}
