package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/enkv/draftpad/service"
)

type driveSaveRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

type driveSaveResponse struct {
	Message string `json:"message"`
	FileId  string `json:"fileId"`
}

func (h *Handler) HandleDriveSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	if sess.AccessToken == "" {
		h.sendError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req driveSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Content and title are required")
		return
	}

	fileId, err := h.Service.ExportDraft(r.Context(), sess, req.Title, req.Content)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			h.sendError(w, http.StatusBadRequest, ve.Reason)
			return
		}
		// Drive's own message is usually the actionable part (quota,
		// revoked scope), so it passes through
		log.Printf("Drive export failed for %s: %v", sess.Email, err)
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.sendResponse(w, driveSaveResponse{Message: "File saved successfully", FileId: fileId})
}
