package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalBlob is the backing row for one KV entry.
type LocalBlob struct {
	Key       string    `gorm:"primary_key;size:100" json:"key"`
	Value     string    `gorm:"type:longtext" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DBStore persists blobs in the station database. This is the default
// backend: the queue must survive power loss at the till.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Migrate creates the local_blobs table.
func (s *DBStore) Migrate() error {
	return s.db.AutoMigrate(&LocalBlob{})
}

func (s *DBStore) Load(key string) (string, bool, error) {
	var blob LocalBlob
	err := s.db.Where("`key` = ?", key).Take(&blob).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return blob.Value, true, nil
}

func (s *DBStore) Save(key string, value string) error {
	blob := LocalBlob{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error
}

func (s *DBStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Where("`key` IN ?", keys).Delete(&LocalBlob{}).Error
}
