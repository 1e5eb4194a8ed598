package utils

import (
	"agenda-backend/config"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const (
	cancelTokenName   = "agenda_cancel"
	cancelTokenMaxAge = 30 * 24 * time.Hour
)

var ErrInvalidCancelToken = errors.New("invalid cancellation token")

// CancelTokens signs and encrypts (booking id, phone) pairs handed to the
// customer at reservation time.
type CancelTokens struct {
	sc *securecookie.SecureCookie
}

func NewCancelTokens(hashKey, blockKey []byte) *CancelTokens {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(cancelTokenMaxAge.Seconds()))
	return &CancelTokens{sc: sc}
}

// CancelTokensFromConfig builds the codec from CANCEL_TOKEN_*_KEY. Without
// configured keys random ones are used and tokens die with the process.
func CancelTokensFromConfig() (*CancelTokens, error) {
	hashKey, blockKey := config.AppConfig.CancelTokenHashKey, config.AppConfig.CancelTokenBlockKey
	if hashKey == "" || blockKey == "" {
		GetLogger().Warn("CANCEL_TOKEN_HASH_KEY/CANCEL_TOKEN_BLOCK_KEY not set, using ephemeral keys")
		return NewCancelTokens(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)), nil
	}

	hk, err := base64.StdEncoding.DecodeString(strings.TrimSpace(hashKey))
	if err != nil {
		return nil, fmt.Errorf("CANCEL_TOKEN_HASH_KEY: %w", err)
	}
	bk, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blockKey))
	if err != nil {
		return nil, fmt.Errorf("CANCEL_TOKEN_BLOCK_KEY: %w", err)
	}
	return NewCancelTokens(hk, bk), nil
}

func (t *CancelTokens) Issue(bookingID uuid.UUID, phone string) (string, error) {
	return t.sc.Encode(cancelTokenName, map[string]string{
		"bid":   bookingID.String(),
		"phone": phone,
	})
}

func (t *CancelTokens) Verify(token string) (uuid.UUID, string, error) {
	val := map[string]string{}
	if err := t.sc.Decode(cancelTokenName, token, &val); err != nil {
		return uuid.Nil, "", ErrInvalidCancelToken
	}
	id, err := uuid.Parse(val["bid"])
	if err != nil || val["phone"] == "" {
		return uuid.Nil, "", ErrInvalidCancelToken
	}
	return id, val["phone"], nil
}
