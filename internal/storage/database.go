package storage

import (
	"context"
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type slot struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

// Database keeps slots in a SQLite table.
type Database struct {
	db *gorm.DB
}

// NewDatabase opens or creates the SQLite database at path and migrates the
// slot table.
func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&slot{})
	if err != nil {
		return nil, err
	}

	return &Database{
		db: db,
	}, nil
}

func (d *Database) Close() error {
	return nil
}

func (d *Database) Get(ctx context.Context, key string) ([]byte, error) {
	var s slot
	err := d.db.WithContext(ctx).First(&s, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoValue
	} else if err != nil {
		return nil, err
	}

	return s.Value, nil
}

func (d *Database) Set(ctx context.Context, key string, value []byte) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&slot{Key: key, Value: value}).Error
}
