package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrEmptyTable = errors.New("table name is required")

// RecordStore inserts submission rows into named tables.
type RecordStore struct {
	DB *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{DB: db}
}

// Insert writes record into table. The driver's error is returned untouched so its message
// can be shown to the applicant.
func (s *RecordStore) Insert(ctx context.Context, table string, record any) error {
	if table == "" {
		return ErrEmptyTable
	}
	return s.DB.WithContext(ctx).Table(table).Create(record).Error
}
