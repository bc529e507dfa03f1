package models

import (
	"time"

	"github.com/orris-inc/saasportal/internal/shared/constants"
)

// LockModel is a held lock when Redis is not configured. A row past
// ExpiresAt may be taken over by another holder.
type LockModel struct {
	Name      string    `gorm:"primaryKey;size:191"`
	Token     string    `gorm:"not null;size:64"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (LockModel) TableName() string {
	return constants.TableLocks
}
