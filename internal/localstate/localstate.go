// Package localstate persists the console's small client-side state: gateway
// credentials and the last list filter/page-size per domain. It plays the role
// browser local storage plays for the web dashboard.
package localstate

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type AuthToken struct {
	ID           uint `gorm:"primaryKey"`
	AccessToken  string
	RefreshToken string
	CSRFToken    string
	UpdatedAt    time.Time
}

type ListPreference struct {
	ID        uint   `gorm:"primaryKey"`
	Domain    string `gorm:"uniqueIndex"`
	Filter    datatypes.JSON
	PageSize  int
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&AuthToken{}, &ListPreference{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Tokens returns the stored credentials, empty strings when nothing is saved.
// Implements apiclient.TokenStore.
func (s *Store) Tokens() (access, refresh, csrf string) {
	var row AuthToken
	if err := s.db.First(&row).Error; err != nil {
		return "", "", ""
	}
	return row.AccessToken, row.RefreshToken, row.CSRFToken
}

func (s *Store) SaveTokens(access, refresh string) error {
	var row AuthToken
	err := s.db.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = AuthToken{}
	} else if err != nil {
		return err
	}
	row.AccessToken = access
	row.RefreshToken = refresh
	return s.db.Save(&row).Error
}

func (s *Store) SaveCSRFToken(csrf string) error {
	var row AuthToken
	err := s.db.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = AuthToken{}
	} else if err != nil {
		return err
	}
	row.CSRFToken = csrf
	return s.db.Save(&row).Error
}

func (s *Store) ClearTokens() error {
	return s.db.Where("1 = 1").Delete(&AuthToken{}).Error
}

// SavePreference stores the filter and page size last used on a domain page.
func (s *Store) SavePreference(domain string, filter interface{}, pageSize int) error {
	raw, err := json.Marshal(filter)
	if err != nil {
		return err
	}

	var row ListPreference
	err = s.db.Where("domain = ?", domain).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = ListPreference{Domain: domain}
	} else if err != nil {
		return err
	}
	row.Filter = datatypes.JSON(raw)
	row.PageSize = pageSize
	return s.db.Save(&row).Error
}

// Preference loads the saved filter for a domain into out. Returns the saved
// page size, or 0 when nothing is stored.
func (s *Store) Preference(domain string, out interface{}) (int, error) {
	var row ListPreference
	if err := s.db.Where("domain = ?", domain).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if out != nil && len(row.Filter) > 0 {
		if err := json.Unmarshal(row.Filter, out); err != nil {
			return 0, err
		}
	}
	return row.PageSize, nil
}
