package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor identifies the last row of a page ordered by (SortDate DESC, CreatedAt DESC, ID DESC).
type Cursor struct {
	SortDate  time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken creates an opaque token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.SortDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	sortDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sort date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{SortDate: sortDate, CreatedAt: createdAt, ID: parts[2]}, nil
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizeLimit clamps a requested page size into [1, MaxLimit], defaulting when unset.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset converts a 1-based page number into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * NormalizeLimit(limit)
}
