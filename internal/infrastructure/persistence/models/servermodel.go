package models

import (
	"time"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

// ServerModel is the persistence model of a provisioning server.
type ServerModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"column:sid;uniqueIndex;not null;size:50"`
	Domain    string `gorm:"uniqueIndex;not null;size:255"`
	Scheme    string `gorm:"not null;size:10;default:http"`
	Host      string `gorm:"size:255"`
	Provider  string `gorm:"size:100"`
	Secret    string `gorm:"size:255"`
	Active    bool   `gorm:"not null;default:true;index"`
	Sequence  int    `gorm:"not null;default:10"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ServerModel) TableName() string {
	return constants.TableServers
}
