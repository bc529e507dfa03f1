package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

// ClientModel stores tenant instances. Active is written by the mapper from
// the state and never set on its own.
type ClientModel struct {
	ID                   uint   `gorm:"primarykey"`
	SID                  string `gorm:"column:sid;uniqueIndex;not null;size:50"`
	Name                 string `gorm:"not null;size:255;index"`
	ClientID             string `gorm:"uniqueIndex;not null;size:64"`
	ServerID             *uint  `gorm:"index"`
	State                string `gorm:"not null;size:20;default:draft;index:idx_client_quota,priority:3"`
	Active               bool   `gorm:"not null;default:true;index"`
	Password             string `gorm:"size:255"`
	RemoteState          datatypes.JSON
	PartnerID            uint       `gorm:"not null;default:0;index:idx_client_quota,priority:1"`
	PlanID               *uint      `gorm:"index:idx_client_quota,priority:2"`
	UserID               *uint      `gorm:"index"`
	ExpirationDatetime   *time.Time `gorm:"index"`
	Expired              bool       `gorm:"not null;default:false"`
	NotificationSent     bool       `gorm:"not null;default:false"`
	StorageExceed        bool       `gorm:"not null;default:false"`
	BlockOnExpiration    bool       `gorm:"not null;default:false"`
	BlockOnStorageExceed bool       `gorm:"not null;default:false"`
	Trial                bool       `gorm:"not null;default:false;index:idx_client_quota,priority:4"`
	TrialHours           int        `gorm:"not null;default:0"`
	MaxUsers             int        `gorm:"not null;default:0"`
	FileStorage          int64      `gorm:"not null;default:0"`
	DBStorage            int64      `gorm:"column:db_storage;not null;default:0"`
	TotalStorageLimit    int64      `gorm:"not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ClientModel) TableName() string {
	return constants.TableClients
}
