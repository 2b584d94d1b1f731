package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/reallife-app/reallife/internal/api"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// IssueToken signs an access token for userID.
func (s *Server) IssueToken(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// TokenFor signs an access token for an existing username.
func (s *Server) TokenFor(username string) (string, bool) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	tok, err := s.IssueToken(u.id)
	if err != nil {
		return "", false
	}
	return tok, true
}

func (s *Server) parseToken(raw string) (string, bool) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	id, ok := claims["user_id"].(string)
	return id, ok && id != ""
}

func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id, ok := s.parseToken(strings.TrimPrefix(header, "Bearer "))
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		s.mu.RLock()
		_, exists := s.byID[id]
		s.mu.RUnlock()
		if !exists {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	s.mu.RLock()
	u, ok := s.users[req.Username]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	access, err := s.IssueToken(u.id)
	if err != nil {
		s.log.Error("signing token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "token_generation_error")
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{AccessToken: access, RefreshToken: uuid.NewString()})
}
