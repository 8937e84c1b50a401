package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/enkv/draftpad/models"
	"github.com/enkv/draftpad/store"
)

// SaveDraft appends a new draft to the user's list and returns the updated
// list so the caller can refresh its state without a second round trip.
func (s *Service) SaveDraft(ctx context.Context, email string, text string) ([]models.Draft, error) {
	if err := validateDraftText(text); err != nil {
		return nil, err
	}

	drafts, err := s.Store.AppendDraft(ctx, email, text)
	if err != nil {
		return nil, err
	}

	filtered := filterDrafts(drafts)
	s.refreshCache(ctx, email, filtered)
	return filtered, nil
}

// ListDrafts returns the user's drafts, dropping any empty or
// whitespace-only entries left behind by older clients.
func (s *Service) ListDrafts(ctx context.Context, email string) ([]models.Draft, error) {
	if drafts, ok, err := s.Cache.GetDrafts(ctx, email); err == nil && ok {
		return filterDrafts(drafts), nil
	}

	user, err := s.Store.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}

	filtered := filterDrafts(user.Drafts)
	s.refreshCache(ctx, email, filtered)
	return filtered, nil
}

// EditDraft replaces the text of the draft currently matching oldText. The
// match resolves to the draft's id once, so the store mutation cannot land on
// a different draft even if the list shifts under a concurrent request.
func (s *Service) EditDraft(ctx context.Context, email string, oldText string, newText string) ([]models.Draft, error) {
	if oldText == "" || strings.TrimSpace(newText) == "" {
		return nil, &ValidationError{Reason: "invalid draft content"}
	}
	if len(newText) > maxDraftLength {
		return nil, &ValidationError{Reason: "draft is too long"}
	}

	user, err := s.Store.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}

	target, ok := findDraftByText(user.Drafts, oldText)
	if !ok {
		return nil, store.ErrDraftNotFound
	}

	drafts, err := s.Store.UpdateDraftText(ctx, email, target.Id, newText)
	if err != nil {
		return nil, err
	}

	filtered := filterDrafts(drafts)
	s.refreshCache(ctx, email, filtered)
	return filtered, nil
}

// DeleteDraft removes the draft matching text. Deleting text that matches
// nothing succeeds with matched=false and the unchanged list; callers that
// care can tell "deleted" from "was already absent".
func (s *Service) DeleteDraft(ctx context.Context, email string, text string) ([]models.Draft, bool, error) {
	if strings.TrimSpace(text) == "" {
		return nil, false, &ValidationError{Reason: "invalid draft content"}
	}

	user, err := s.Store.GetUser(ctx, email)
	if err != nil {
		return nil, false, err
	}

	target, ok := findDraftByText(user.Drafts, text)
	if !ok {
		filtered := filterDrafts(user.Drafts)
		s.refreshCache(ctx, email, filtered)
		return filtered, false, nil
	}

	drafts, err := s.Store.RemoveDraft(ctx, email, target.Id)
	if errors.Is(err, store.ErrDraftNotFound) {
		// A concurrent request removed it first; same outcome as already absent
		user, err := s.Store.GetUser(ctx, email)
		if err != nil {
			return nil, false, err
		}
		filtered := filterDrafts(user.Drafts)
		s.refreshCache(ctx, email, filtered)
		return filtered, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	filtered := filterDrafts(drafts)
	s.refreshCache(ctx, email, filtered)
	return filtered, true, nil
}

// findDraftByText returns the oldest draft whose content matches exactly.
func findDraftByText(drafts []models.Draft, text string) (models.Draft, bool) {
	for _, d := range drafts {
		if d.Text == text {
			return d, true
		}
	}
	return models.Draft{}, false
}

func filterDrafts(drafts []models.Draft) []models.Draft {
	filtered := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

// refreshCache is best effort; the store already committed.
func (s *Service) refreshCache(ctx context.Context, email string, drafts []models.Draft) {
	if err := s.Cache.SetDrafts(ctx, email, drafts); err != nil {
		log.Printf("Failed to cache drafts for %s: %v", email, err)
	}
}
