package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strconv"
	"time"
)

// issueRefresh stores a rotating refresh token in Redis keyed "rt:<token>",
// value "<userID>|<tokenVersion>".
func (h *Handler) issueRefresh(ctx context.Context, userID string, tokenVersion int) (string, error) {
	if h.RDB == nil {
		return "", errors.New("redis not configured")
	}
	token, err := randToken()
	if err != nil {
		return "", err
	}
	val := userID + "|" + strconv.Itoa(tokenVersion)
	if err := h.RDB.Set(ctx, "rt:"+token, val, refreshTTL()).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func refreshTTL() time.Duration {
	if s := os.Getenv("AUTH_REFRESH_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 30 * 24 * time.Hour
}

func randToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
