// Package auth resolves the calling principal: it registers users, verifies
// credentials and mints the bearer tokens the rest of the API trusts.
package auth

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/openshelf/catalog-api/internal/api/httpx"
	jwtutil "github.com/openshelf/catalog-api/internal/security/jwt"
	"github.com/openshelf/catalog-api/internal/security/password"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	Store UserStore
	RDB   *redis.Client
}

// Register creates an account and signs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Password = strings.TrimSpace(req.Password)
	req.Email = strings.TrimSpace(req.Email)
	if len(req.Password) < 8 || req.Email == "" {
		httpx.Error(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	u, err := h.Store.CreateUser(req.Email, req.Username, hash)
	if err != nil {
		httpx.Error(w, http.StatusConflict, "cannot create user")
		return
	}

	pair, err := h.tokenPair(r, u.ID, u.TokenVersion)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, pair)
}

// Login verifies credentials and returns a token pair. Hashes created under a
// weaker argon2id policy are transparently upgraded.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	u, err := h.Store.FindUserByEmail(req.Email)
	if err != nil || u.ID == "" {
		httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	ok, needsRehash, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if needsRehash {
		if newPHC, err := password.Hash(req.Password); err == nil {
			_ = h.Store.UpdateUserPasswordHash(u.ID, newPHC)
		}
	}

	pair, err := h.tokenPair(r, u.ID, u.TokenVersion)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

// Refresh rotates a refresh token and mints a new access token, rejecting
// tokens whose version the user has since revoked.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx := r.Context()
	key := "rt:" + req.RefreshToken
	val, err := h.RDB.Get(ctx, key).Result()
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	parts := strings.SplitN(val, "|", 2)
	if len(parts) != 2 {
		httpx.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	userID := parts[0]

	dbVer, err := h.Store.TokenVersion(userID)
	if err != nil || strconv.Itoa(dbVer) != parts[1] {
		httpx.Error(w, http.StatusUnauthorized, "token has been revoked")
		return
	}

	_ = h.RDB.Del(ctx, key).Err()

	pair, err := h.tokenPair(r, userID, dbVer)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pair)
}

// Logout invalidates a single refresh token; an absent token is a no-op.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken != "" {
		_ = h.RDB.Del(r.Context(), "rt:"+req.RefreshToken).Err()
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) tokenPair(r *http.Request, userID string, tokenVersion int) (TokenPair, error) {
	access, _, err := jwtutil.SignAccess(userID, tokenVersion, jwtutil.DefaultAccessTTL())
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := h.issueRefresh(r.Context(), userID, tokenVersion)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
