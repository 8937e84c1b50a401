package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/enkv/draftpad/service"
	"github.com/enkv/draftpad/store"
)

type Handler struct {
	Service  *service.Service
	limiters *userLimiters
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc, limiters: newUserLimiters()}
}

type loginRequest struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.Service.Login(r.Context(), req.Provider, req.Code)
	if err != nil {
		log.Printf("Login failed: %v", err)
		h.sendError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.sendResponse(w, loginResponse{
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	})
}

type profileResponse struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Image     string `json:"image"`
	CreatedAt int64  `json:"createdAt"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := h.Service.GetProfile(r.Context(), sess)
		if err != nil {
			h.sendServiceError(w, err, "User not found")
			return
		}
		h.sendResponse(w, profileResponse{
			Name:      user.Name,
			Email:     user.Email,
			Image:     user.Image,
			CreatedAt: user.Created,
		})

	case http.MethodDelete:
		if err := h.Service.DeleteAccount(r.Context(), sess); err != nil {
			h.sendServiceError(w, err, "User not found")
			return
		}
		h.sendResponse(w, map[string]bool{"success": true})

	default:
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// authenticate resolves the session from the Authorization header and
// applies the per-user rate limit. On failure it has already written the
// response.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (service.Session, bool) {
	sess, err := h.Service.AuthenticateToken(h.getTokenFromAuthHeader(r))
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "Unauthorized")
		return service.Session{}, false
	}

	if !h.limiters.allow(sess.Email) {
		h.sendError(w, http.StatusTooManyRequests, "Too many requests")
		return service.Session{}, false
	}

	return sess, true
}

// sendServiceError maps the error taxonomy onto statuses: validation → 400,
// user/draft not found → 404, anything else → logged 500 with a generic
// message so store internals never leak to the caller.
func (h *Handler) sendServiceError(w http.ResponseWriter, err error, userNotFoundMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		h.sendError(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, store.ErrUserNotFound):
		h.sendError(w, http.StatusNotFound, userNotFoundMsg)
	case errors.Is(err, store.ErrDraftNotFound):
		h.sendError(w, http.StatusNotFound, "User or draft not found")
	default:
		log.Printf("Request failed: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) sendResponse(w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (h *Handler) getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, prefix)
}
