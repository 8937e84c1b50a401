package service

import (
	"context"
	"log"
	"strings"
)

// ExportDraft saves the draft text to the user's Drive as a document and
// best-effort records the returned file id on the matching draft. The export
// is the primary contract: once Drive has the document, a failed or
// unmatched attach is logged but never surfaced, and the file id is still
// returned.
func (s *Service) ExportDraft(ctx context.Context, sess Session, title string, content string) (string, error) {
	if strings.TrimSpace(content) == "" || strings.TrimSpace(title) == "" {
		return "", &ValidationError{Reason: "content and title are required"}
	}

	fileId, err := s.Drive.CreateDocument(ctx, sess.AccessToken, title, content)
	if err != nil {
		return "", err
	}

	s.attachExport(ctx, sess.Email, content, fileId)

	return fileId, nil
}

func (s *Service) attachExport(ctx context.Context, email string, content string, fileId string) {
	user, err := s.Store.GetUser(ctx, email)
	if err != nil {
		log.Printf("Export attach skipped for %s: %v", email, err)
		return
	}

	target, ok := findDraftByText(user.Drafts, content)
	if !ok {
		log.Printf("Export attach skipped for %s: no draft matches exported content", email)
		return
	}

	drafts, err := s.Store.AttachFileId(ctx, email, target.Id, fileId)
	if err != nil {
		log.Printf("Failed to attach file id %s for %s: %v", fileId, email, err)
		return
	}

	s.refreshCache(ctx, email, filterDrafts(drafts))
}
