package feed

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedCursor = errors.New("cursor is malformed")

// cursor pins a position in the (created_at, id) descending order. Deleted
// posts do not break it: comparison only ever uses the encoded pair, the
// anchoring post is never looked up.
type cursor struct {
	ts time.Time
	id uint
}

func encodeCursor(ts time.Time, id uint) string {
	raw := fmt.Sprintf("%d:%d", ts.UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, ErrMalformedCursor
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return cursor{}, ErrMalformedCursor
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return cursor{}, ErrMalformedCursor
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return cursor{}, ErrMalformedCursor
	}

	return cursor{ts: time.Unix(0, nanos).UTC(), id: uint(id)}, nil
}
