package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values
	c := Cursor{
		SortDate:  time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "0b6f1c1e-4f4b-4a53-9e54-6a0e8c3f2d11",
	}

	token := EncodeToken(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, c, decoded, "Cursor should match after decode")

	// Current time values
	now := time.Now().UTC()
	nowDecoded, err := DecodeToken(EncodeToken(Cursor{SortDate: now, CreatedAt: now, ID: "x"}))
	assert.NoError(t, err)
	assert.True(t, now.Equal(nowDecoded.SortDate), "Current date should match after decode")
	assert.True(t, now.Equal(nowDecoded.CreatedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	missingID := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z"))
	_, err = DecodeToken(missingID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45.123456789Z|id"))
	_, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sort date parse")

	badCreated := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|nope|id"))
	_, err = DecodeToken(badCreated)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestNormalizeLimitAndOffset(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 15, NormalizeLimit(15))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))

	assert.Equal(t, 0, Offset(0, 10))
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 2*DefaultLimit, Offset(3, 0))
}
