package rest

import (
	"encoding/json"
	"net/http"

	"github.com/enkv/draftpad/models"
)

type saveDraftRequest struct {
	Draft string `json:"draft"`
}

type editDraftRequest struct {
	OldDraft string `json:"oldDraft"`
	NewDraft string `json:"newDraft"`
}

type draftsResponse struct {
	Message string         `json:"message,omitempty"`
	Drafts  []models.Draft `json:"drafts"`
}

func (h *Handler) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Draft cannot be empty")
		return
	}

	drafts, err := h.Service.SaveDraft(r.Context(), sess.Email, req.Draft)
	if err != nil {
		h.sendServiceError(w, err, "User not found")
		return
	}

	h.sendResponse(w, draftsResponse{Message: "Draft saved successfully", Drafts: drafts})
}

func (h *Handler) HandleGetDrafts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	drafts, err := h.Service.ListDrafts(r.Context(), sess.Email)
	if err != nil {
		h.sendServiceError(w, err, "User not found")
		return
	}

	h.sendResponse(w, draftsResponse{Drafts: drafts})
}

func (h *Handler) HandleEditDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req editDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid draft content")
		return
	}

	drafts, err := h.Service.EditDraft(r.Context(), sess.Email, req.OldDraft, req.NewDraft)
	if err != nil {
		// The edit locates user and draft with one match, so both absences
		// report the same not-found outcome
		h.sendServiceError(w, err, "User or draft not found")
		return
	}

	h.sendResponse(w, draftsResponse{Message: "Draft updated successfully", Drafts: drafts})
}

func (h *Handler) HandleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sess, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid draft content")
		return
	}

	drafts, _, err := h.Service.DeleteDraft(r.Context(), sess.Email, req.Draft)
	if err != nil {
		h.sendServiceError(w, err, "User not found")
		return
	}

	h.sendResponse(w, draftsResponse{Message: "Draft deleted successfully", Drafts: drafts})
}
