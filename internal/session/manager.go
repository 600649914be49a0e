package session

import (
	"errors"
	"time"

	"github.com/Kyz7/microblog/internal/token"
	"github.com/Kyz7/microblog/internal/tokenstore"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Pair is what a successful login or refresh hands back.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenStore is what Manager needs from the record layer.
type TokenStore interface {
	RecordRefresh(userID uint, tokenID string, expiresAt time.Time) error
	ConsumeRefresh(tokenID string) (uint, error)
	RevokeAllForUser(userID uint) error
	RecordReset(userID uint, tokenID string, expiresAt time.Time) error
	ConsumeReset(tokenID string) (uint, error)
}

// Manager drives the session lifecycle: login issues an access+refresh
// pair, refresh rotates the pair, logout and reset redemption revoke
// everything outstanding. Credential checks happen outside; Manager only
// sees user ids.
type Manager struct {
	codec      *token.Codec
	store      TokenStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewManager(codec *token.Codec, store TokenStore, accessTTL, refreshTTL, resetTTL time.Duration) *Manager {
	return &Manager{
		codec:      codec,
		store:      store,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

func (m *Manager) issuePair(userID uint) (*Pair, error) {
	access, _, err := m.codec.Issue(userID, token.KindAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, info, err := m.codec.Issue(userID, token.KindRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.RecordRefresh(userID, info.TokenID, info.ExpiresAt); err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// Login issues a fresh access+refresh pair for an already-verified user.
func (m *Manager) Login(userID uint) (*Pair, error) {
	return m.issuePair(userID)
}

// Refresh rotates a refresh token: the presented token is consumed and a
// brand-new pair is issued. Every refresh token is single-use. Presenting
// an already-consumed token is treated as replay of a stolen token: all of
// the user's refresh records are revoked before the error surfaces.
func (m *Manager) Refresh(refreshToken string) (*Pair, error) {
	info, err := m.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}

	userID, err := m.store.ConsumeRefresh(info.TokenID)
	if err != nil {
		if errors.Is(err, tokenstore.ErrAlreadyUsed) {
			if revokeErr := m.store.RevokeAllForUser(info.UserID); revokeErr != nil {
				return nil, errors.Join(err, revokeErr)
			}
		}
		return nil, err
	}

	return m.issuePair(userID)
}

// Logout revokes every refresh record the user holds. Outstanding access
// tokens ride out their short ttl.
func (m *Manager) Logout(userID uint) error {
	return m.store.RevokeAllForUser(userID)
}

// RequestReset issues a reset token and records it, replacing any
// outstanding one. The returned string goes out of band (mail) to the user.
func (m *Manager) RequestReset(userID uint) (string, error) {
	reset, info, err := m.codec.Issue(userID, token.KindReset, m.resetTTL)
	if err != nil {
		return "", err
	}
	if err := m.store.RecordReset(userID, info.TokenID, info.ExpiresAt); err != nil {
		return "", err
	}
	return reset, nil
}

// RedeemReset verifies and consumes a reset token, returning the user id
// whose password may now be changed. All refresh records for that user are
// revoked so every device has to log in again.
func (m *Manager) RedeemReset(resetToken string) (uint, error) {
	info, err := m.codec.Verify(resetToken, token.KindReset)
	if err != nil {
		return 0, err
	}

	userID, err := m.store.ConsumeReset(info.TokenID)
	if err != nil {
		return 0, err
	}

	if err := m.store.RevokeAllForUser(userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// Authenticate validates an access token and returns the subject. Manager
// satisfies Verifier with real signature checks.
func (m *Manager) Authenticate(accessToken string) (uint, error) {
	info, err := m.codec.Verify(accessToken, token.KindAccess)
	if err != nil {
		return 0, err
	}
	return info.UserID, nil
}
