package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/profile"
)

// currentUser must be called without s.mu held.
func (s *Server) currentUser(r *http.Request) *user {
	id, _ := r.Context().Value(userIDKey).(string)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	u := s.currentUser(r)
	s.mu.RLock()
	me := api.Me{Profile: u.profile, Intents: u.intents}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, me)
}

func (s *Server) handlePutMe(w http.ResponseWriter, r *http.Request) {
	var req api.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if req.BirthDate != "" {
		if _, err := profile.ParseBirthDate(req.BirthDate); err != nil {
			writeError(w, http.StatusBadRequest, "invalid birth_date")
			return
		}
	}

	var hash []byte
	if req.Password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "hash_error")
			return
		}
	}

	u := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if name := strings.TrimSpace(req.Username); name != "" && name != u.username {
		if _, taken := s.users[name]; taken {
			writeError(w, http.StatusConflict, "username_taken")
			return
		}
		delete(s.users, u.username)
		u.username = name
		s.users[name] = u
	}
	if hash != nil {
		u.passwordHash = hash
	}
	u.email = strings.TrimSpace(req.Email)
	u.profile.DisplayName = strings.TrimSpace(req.DisplayName)
	u.profile.BirthDate = req.BirthDate
	u.profile.ProfileImage = req.ProfileImage
	rec := req.Intents
	u.intents = &rec
	if flags := rec.Enabled(); len(flags) > 0 {
		u.profile.MainMode = string(flags[0])
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (s *Server) handleCommunities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Communities())
}

func (s *Server) handleMyCommunities(w http.ResponseWriter, r *http.Request) {
	u := s.currentUser(r)
	s.mu.RLock()
	out := []community.Community{}
	for _, c := range s.communities {
		if u.joined[c.ID] {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u := s.currentUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failJoins[id] {
		s.log.Warn("join rejected", zap.String("community_id", id))
		writeError(w, http.StatusInternalServerError, "join_failed")
		return
	}
	if _, ok := community.Index(s.communities)[id]; !ok {
		writeError(w, http.StatusNotFound, "community_not_found")
		return
	}
	u.joined[id] = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "Joined community"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
