package models

import (
	"time"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

type PortalUserModel struct {
	ID        uint   `gorm:"primarykey"`
	PartnerID uint   `gorm:"not null;index"`
	Login     string `gorm:"uniqueIndex;not null;size:255"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PortalUserModel) TableName() string {
	return constants.TablePortalUsers
}
