package models

import "github.com/orris-inc/saasportal/internal/shared/constants"

// SequenceModel is a named counter used when Redis is not configured.
type SequenceModel struct {
	Name  string `gorm:"primaryKey;size:100"`
	Value int64  `gorm:"not null;default:0"`
}

func (SequenceModel) TableName() string {
	return constants.TableSequences
}
