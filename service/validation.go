package service

import "strings"

// ValidationError marks a request payload failure that handlers report as a
// 400 with the reason as the message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

const maxDraftLength = 100000 // ~100KB of text

func validateDraftText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Reason: "draft cannot be empty"}
	}
	if len(text) > maxDraftLength {
		return &ValidationError{Reason: "draft is too long"}
	}
	return nil
}
