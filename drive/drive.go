package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"golang.org/x/oauth2"
)

// Exporter creates a cloud document from draft text and returns the
// provider's opaque file identifier.
type Exporter interface {
	CreateDocument(ctx context.Context, accessToken string, title string, content string) (string, error)
}

const defaultUploadBaseURL = "https://www.googleapis.com/upload/drive/v3"

// Client talks to the Google Drive v3 upload API using the caller's
// delegated access token. BaseURL is overridable for tests.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{BaseURL: defaultUploadBaseURL}
}

type fileMetadata struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

type fileResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type driveErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateDocument uploads the draft text as a Google Doc via a
// multipart/related request (metadata part + media part) and returns the new
// file's id. Errors carry Drive's own message where one is given, since
// those are usually actionable (quota, revoked scope).
func (c *Client) CreateDocument(ctx context.Context, accessToken string, title string, content string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return "", err
	}
	meta := fileMetadata{Name: title, MimeType: "application/vnd.google-apps.document"}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return "", err
	}

	mediaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(mediaPart, content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := c.BaseURL + "/files?uploadType=multipart&fields=id%2Cname"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient(ctx, accessToken).Do(req)
	if err != nil {
		return "", fmt.Errorf("drive upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var driveErr driveErrorResponse
		if err := json.Unmarshal(respBody, &driveErr); err == nil && driveErr.Error.Message != "" {
			return "", fmt.Errorf("drive: %s", driveErr.Error.Message)
		}
		return "", fmt.Errorf("drive: upload returned status %d", resp.StatusCode)
	}

	var file fileResponse
	if err := json.Unmarshal(respBody, &file); err != nil {
		return "", fmt.Errorf("drive: failed to decode upload response: %w", err)
	}
	if file.Id == "" {
		return "", fmt.Errorf("drive: upload response missing file id")
	}

	return file.Id, nil
}

// httpClient wraps the transport with the delegated token so every request
// carries the Bearer header, including when tests swap in their own client.
func (c *Client) httpClient(ctx context.Context, accessToken string) *http.Client {
	if c.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}
