// Package repository implements the data access layer for the application.
package repository

import (
	"errors"

	"farmsphere/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	return db
}

// notFound converts gorm.ErrRecordNotFound into a NOT_FOUND AppError carrying
// message, and returns any other error unchanged.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(message)
	}
	return err
}

// forUpdate adds a row lock on dialects that support one.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func newestFirst(column string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: true}
}

func oldestFirst(column string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}}
}
