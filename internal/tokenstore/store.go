package tokenstore

import (
	"errors"
	"time"

	"github.com/Kyz7/microblog/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("token record not found")
	ErrExpired     = errors.New("token record expired")
	ErrAlreadyUsed = errors.New("token record already used")
)

// Store persists refresh and reset token records. It is the only mutable
// shared state of the auth core; consumption relies on single-statement
// conditional writes so concurrent callers race on RowsAffected instead of
// on a lock.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func NewWithClock(db *gorm.DB, now func() time.Time) *Store {
	return &Store{db: db, now: now}
}

// RecordRefresh inserts a new active refresh record. It does not touch
// prior records; rotation invalidates the presented record explicitly via
// ConsumeRefresh.
func (s *Store) RecordRefresh(userID uint, tokenID string, expiresAt time.Time) error {
	rt := models.RefreshToken{
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}
	return s.db.Create(&rt).Error
}

// ConsumeRefresh marks the record used and returns the owning user id.
// Exactly one of two racing callers wins: the conditional UPDATE flips
// used=false to used=true, and RowsAffected decides. The loser gets
// ErrAlreadyUsed, which callers must treat as a replay signal.
func (s *Store) ConsumeRefresh(tokenID string) (uint, error) {
	res := s.db.Model(&models.RefreshToken{}).
		Where("token_id = ? AND used = ? AND expires_at > ?", tokenID, false, s.now()).
		Update("used", true)
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 1 {
		var rt models.RefreshToken
		if err := s.db.Where("token_id = ?", tokenID).First(&rt).Error; err != nil {
			return 0, err
		}
		return rt.UserID, nil
	}

	var rt models.RefreshToken
	if err := s.db.Where("token_id = ?", tokenID).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if rt.Used {
		return 0, ErrAlreadyUsed
	}
	return 0, ErrExpired
}

// RevokeAllForUser drops every refresh record for the user: logout
// everywhere, or the response to a detected replay.
func (s *Store) RevokeAllForUser(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// RecordReset replaces any outstanding reset record for the user, so at
// most one reset token is live per user at a time.
func (s *Store) RecordReset(userID uint, tokenID string, expiresAt time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ResetToken{
			UserID:    userID,
			TokenID:   tokenID,
			ExpiresAt: expiresAt,
		}).Error
	})
}

// ConsumeReset deletes the record and returns the owning user id. The
// DELETE is the atomic step: with two racing callers only one observes
// RowsAffected == 1, the other gets ErrNotFound.
func (s *Store) ConsumeReset(tokenID string) (uint, error) {
	var rt models.ResetToken
	if err := s.db.Where("token_id = ?", tokenID).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	// The expired record is left for DeleteExpired to sweep.
	if rt.ExpiresAt.Before(s.now()) {
		return 0, ErrExpired
	}

	res := s.db.Where("token_id = ?", tokenID).Delete(&models.ResetToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rt.UserID, nil
}

// DeleteExpired sweeps expired refresh and reset records. Called from a
// background ticker; returns how many rows went away.
func (s *Store) DeleteExpired() (int64, error) {
	now := s.now()

	refresh := s.db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if refresh.Error != nil {
		return 0, refresh.Error
	}

	reset := s.db.Where("expires_at < ?", now).Delete(&models.ResetToken{})
	if reset.Error != nil {
		return refresh.RowsAffected, reset.Error
	}

	return refresh.RowsAffected + reset.RowsAffected, nil
}
