// Package models contains the persisted entities, their record builders and
// the application error type.
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the store-native primary key shared by every table.
type Base struct {
	RowID uuid.UUID `gorm:"column:_id;type:uuid;primaryKey" json:"_id"`
}

// BeforeCreate assigns a random row id when the caller did not set one.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.RowID == uuid.Nil {
		b.RowID = uuid.New()
	}
	return nil
}
