package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindReset   Kind = "reset"
)

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
	ErrKindMismatch     = errors.New("token kind mismatch")
)

type claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"uid"`
	Kind   Kind `json:"kind"`
}

// Info is what a verified token asserts.
type Info struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// Codec signs and verifies expiring tokens. The key is fixed at
// construction; the clock is injectable so tests can pin time.
type Codec struct {
	key []byte
	now func() time.Time
}

func NewCodec(key []byte) *Codec {
	return &Codec{key: key, now: time.Now}
}

// NewCodecWithClock pins the codec to an explicit clock.
func NewCodecWithClock(key []byte, now func() time.Time) *Codec {
	return &Codec{key: key, now: now}
}

// Issue mints a signed token for userID with a fresh token id (jti). The
// returned Info carries the id and expiry so callers can record the token
// without re-parsing it.
func (cd *Codec) Issue(userID uint, kind Kind, ttl time.Duration) (string, *Info, error) {
	now := cd.now()
	info := &Info{
		UserID:    userID,
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(ttl),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        info.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(info.ExpiresAt),
		},
		UserID: userID,
		Kind:   kind,
	})
	signed, err := t.SignedString(cd.key)
	if err != nil {
		return "", nil, err
	}
	return signed, info, nil
}

// Verify parses and validates a token string against the expected kind.
// Failures are reported as ErrMalformed, ErrInvalidSignature, ErrExpired
// or ErrKindMismatch.
func (cd *Codec) Verify(tokenStr string, expected Kind) (*Info, error) {
	var cl claims
	t, err := jwt.ParseWithClaims(tokenStr, &cl, func(t *jwt.Token) (interface{}, error) {
		return cd.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(cd.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !t.Valid {
		return nil, ErrMalformed
	}

	if cl.Kind != expected {
		return nil, ErrKindMismatch
	}

	return &Info{
		UserID:    cl.UserID,
		TokenID:   cl.ID,
		ExpiresAt: cl.ExpiresAt.Time,
	}, nil
}
