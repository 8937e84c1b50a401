package rest_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/enkv/draftpad/api/rest"
	cachemocks "github.com/enkv/draftpad/cache/mocks"
	drivemocks "github.com/enkv/draftpad/drive/mocks"
	"github.com/enkv/draftpad/models"
	mqmocks "github.com/enkv/draftpad/mq/mocks"
	"github.com/enkv/draftpad/service"
	"github.com/enkv/draftpad/store"
	storemocks "github.com/enkv/draftpad/store/mocks"
)

type handlerFixture struct {
	handler *rest.Handler
	store   *storemocks.MockStore
	cache   *cachemocks.MockCache
	drive   *drivemocks.MockExporter
	token   string
}

func setupHandler(t *testing.T) *handlerFixture {
	mockStore := new(storemocks.MockStore)
	mockCache := new(cachemocks.MockCache)
	mockDrive := new(drivemocks.MockExporter)

	svc, err := service.NewService(mockStore, mockCache, new(mqmocks.MockMQ), mockDrive, nil, []byte("secret"))
	assert.NoError(t, err)

	token, err := svc.CreateJWT("user@example.com", "Test User", "ya29.token")
	assert.NoError(t, err)

	return &handlerFixture{
		handler: rest.NewHandler(svc),
		store:   mockStore,
		cache:   mockCache,
		drive:   mockDrive,
		token:   token,
	}
}

func TestHandleSaveDraft(t *testing.T) {
	f := setupHandler(t)

	updated := []models.Draft{{Id: "d1", Text: "Hello"}}
	f.store.On("AppendDraft", mock.Anything, "user@example.com", "Hello").Return(updated, nil)
	f.cache.On("SetDrafts", mock.Anything, "user@example.com", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/drafts/save", strings.NewReader(`{"draft":"Hello"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleSaveDraft(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		Drafts  []models.Draft `json:"drafts"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Draft saved successfully", resp.Message)
	assert.Len(t, resp.Drafts, 1)
	assert.Equal(t, "Hello", resp.Drafts[0].Text)
}

func TestHandleSaveDraft_Unauthorized(t *testing.T) {
	f := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/drafts/save", strings.NewReader(`{"draft":"Hello"}`))
	rec := httptest.NewRecorder()
	f.handler.HandleSaveDraft(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")

	f.store.AssertNotCalled(t, "AppendDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSaveDraft_BadToken(t *testing.T) {
	f := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/drafts/save", strings.NewReader(`{"draft":"Hello"}`))
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	f.handler.HandleSaveDraft(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleSaveDraft_EmptyDraft(t *testing.T) {
	f := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/drafts/save", strings.NewReader(`{"draft":"   "}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleSaveDraft(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty")
}

func TestHandleSaveDraft_UserNotFound(t *testing.T) {
	f := setupHandler(t)

	f.store.On("AppendDraft", mock.Anything, "user@example.com", "Hello").Return(nil, store.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodPost, "/drafts/save", strings.NewReader(`{"draft":"Hello"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleSaveDraft(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestHandleSaveDraft_MethodNotAllowed(t *testing.T) {
	f := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/drafts/save", nil)
	rec := httptest.NewRecorder()
	f.handler.HandleSaveDraft(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleGetDrafts(t *testing.T) {
	f := setupHandler(t)

	cached := []models.Draft{{Id: "d1", Text: "Hello"}}
	f.cache.On("GetDrafts", mock.Anything, "user@example.com").Return(cached, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/drafts/get", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleGetDrafts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Drafts []models.Draft `json:"drafts"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Drafts, 1)
}

func TestHandleGetDrafts_UserNotFound(t *testing.T) {
	f := setupHandler(t)

	f.cache.On("GetDrafts", mock.Anything, "user@example.com").Return(nil, false, nil)
	f.store.On("GetUser", mock.Anything, "user@example.com").Return(models.User{}, store.ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/drafts/get", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleGetDrafts(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestHandleEditDraft_NotFound(t *testing.T) {
	f := setupHandler(t)

	user := models.User{Email: "user@example.com", Drafts: []models.Draft{{Id: "d1", Text: "other"}}}
	f.store.On("GetUser", mock.Anything, "user@example.com").Return(user, nil)

	req := httptest.NewRequest(http.MethodPost, "/drafts/edit", strings.NewReader(`{"oldDraft":"missing","newDraft":"new"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleEditDraft(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User or draft not found")
}

func TestHandleEditDraft(t *testing.T) {
	f := setupHandler(t)

	user := models.User{Email: "user@example.com", Drafts: []models.Draft{{Id: "d1", Text: "Hello"}}}
	f.store.On("GetUser", mock.Anything, "user@example.com").Return(user, nil)
	updated := []models.Draft{{Id: "d1", Text: "Hello world"}}
	f.store.On("UpdateDraftText", mock.Anything, "user@example.com", "d1", "Hello world").Return(updated, nil)
	f.cache.On("SetDrafts", mock.Anything, "user@example.com", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/drafts/edit", strings.NewReader(`{"oldDraft":"Hello","newDraft":"Hello world"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleEditDraft(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Draft updated successfully")
}

func TestHandleDeleteDraft_AbsentStillSucceeds(t *testing.T) {
	f := setupHandler(t)

	user := models.User{Email: "user@example.com", Drafts: []models.Draft{{Id: "d1", Text: "keep"}}}
	f.store.On("GetUser", mock.Anything, "user@example.com").Return(user, nil)
	f.cache.On("SetDrafts", mock.Anything, "user@example.com", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/drafts/delete", strings.NewReader(`{"draft":"never existed"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleDeleteDraft(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Draft deleted successfully")

	f.store.AssertNotCalled(t, "RemoveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMe_Get(t *testing.T) {
	f := setupHandler(t)

	user := models.User{Email: "user@example.com", Name: "Test User", Created: 1700000000}
	f.store.On("GetUser", mock.Anything, "user@example.com").Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleMe(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		CreatedAt int64  `json:"createdAt"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Test User", resp.Name)
	assert.Equal(t, int64(1700000000), resp.CreatedAt)
}

func TestHandleDriveSave(t *testing.T) {
	f := setupHandler(t)

	f.drive.On("CreateDocument", mock.Anything, "ya29.token", "My Notes", "Hello").Return("file123", nil)
	user := models.User{Email: "user@example.com", Drafts: []models.Draft{{Id: "d1", Text: "Hello"}}}
	f.store.On("GetUser", mock.Anything, "user@example.com").Return(user, nil)
	f.store.On("AttachFileId", mock.Anything, "user@example.com", "d1", "file123").
		Return([]models.Draft{{Id: "d1", Text: "Hello", FileId: "file123"}}, nil)
	f.cache.On("SetDrafts", mock.Anything, "user@example.com", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/drive/save", strings.NewReader(`{"title":"My Notes","content":"Hello"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleDriveSave(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "file123")
	assert.Contains(t, rec.Body.String(), "File saved successfully")
}

func TestHandleDriveSave_DriveErrorPassesThrough(t *testing.T) {
	f := setupHandler(t)

	f.drive.On("CreateDocument", mock.Anything, "ya29.token", "My Notes", "Hello").
		Return("", errors.New("drive: The user has exceeded their Drive storage quota"))

	req := httptest.NewRequest(http.MethodPost, "/drive/save", strings.NewReader(`{"title":"My Notes","content":"Hello"}`))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.HandleDriveSave(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "storage quota")
}

func TestHandleDriveSave_NoAccessToken(t *testing.T) {
	f := setupHandler(t)

	svc := f.handler.Service
	token, err := svc.CreateJWT("user@example.com", "Test User", "")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/drive/save", strings.NewReader(`{"title":"My Notes","content":"Hello"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.HandleDriveSave(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.drive.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimit(t *testing.T) {
	f := setupHandler(t)

	f.cache.On("GetDrafts", mock.Anything, "user@example.com").Return([]models.Draft{}, true, nil)

	limited := false
	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodGet, "/drafts/get", nil)
		req.Header.Set("Authorization", "Bearer "+f.token)
		rec := httptest.NewRecorder()
		f.handler.HandleGetDrafts(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}
