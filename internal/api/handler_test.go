package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"investing-journal-go/internal/core"
	"investing-journal-go/internal/models"
	"investing-journal-go/internal/storage"
)

// Service stubs scripted per test.

type stubUserService struct {
	signupResult *core.AuthResult
	signupErr    error
	loginResult  *core.AuthResult
	loginErr     error
}

func (s *stubUserService) Signup(ctx context.Context, req models.SignupRequest) (*core.AuthResult, error) {
	return s.signupResult, s.signupErr
}

func (s *stubUserService) Login(ctx context.Context, req models.LoginRequest) (*core.AuthResult, error) {
	return s.loginResult, s.loginErr
}

type stubVaultService struct {
	vault    *models.Vault
	points   []*models.ThesisPoint
	vaults   []*models.Vault
	warnings []string
	err      error

	gotUserID  string
	gotVaultID string
}

func (s *stubVaultService) CreateVault(ctx context.Context, userID string, req models.CreateVaultRequest) (*models.Vault, error) {
	s.gotUserID = userID
	return s.vault, s.err
}

func (s *stubVaultService) GetVault(ctx context.Context, userID, vaultID string) (*models.Vault, []*models.ThesisPoint, error) {
	s.gotUserID, s.gotVaultID = userID, vaultID
	return s.vault, s.points, s.err
}

func (s *stubVaultService) GetMinimalVault(ctx context.Context, userID, vaultID string) (*models.Vault, error) {
	s.gotUserID, s.gotVaultID = userID, vaultID
	return s.vault, s.err
}

func (s *stubVaultService) ListVaults(ctx context.Context, userID string) ([]*models.Vault, error) {
	s.gotUserID = userID
	return s.vaults, s.err
}

func (s *stubVaultService) UpdateVault(ctx context.Context, userID, vaultID string, req models.UpdateVaultRequest) (*models.Vault, error) {
	s.gotUserID, s.gotVaultID = userID, vaultID
	return s.vault, s.err
}

func (s *stubVaultService) DeleteVault(ctx context.Context, userID, vaultID string) ([]string, error) {
	s.gotUserID, s.gotVaultID = userID, vaultID
	return s.warnings, s.err
}

type stubAttachmentService struct {
	result    *core.UploadResult
	remaining []models.Attachment
	err       error
}

func (s *stubAttachmentService) Upload(ctx context.Context, files []core.UploadFile) (*core.UploadResult, error) {
	return s.result, s.err
}

func (s *stubAttachmentService) DeleteStaged(ctx context.Context, key string, uploaded []models.Attachment) ([]models.Attachment, error) {
	return s.remaining, s.err
}

func (s *stubAttachmentService) Discard(ctx context.Context, attachments []models.Attachment) error {
	return s.err
}

// injectUser stands in for the auth middleware.
func injectUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{core.ErrValidation, http.StatusUnprocessableEntity},
		{core.ErrEmailTaken, http.StatusUnprocessableEntity},
		{core.ErrDuplicateVaultName, http.StatusUnprocessableEntity},
		{core.ErrIncorrectPassword, http.StatusForbidden},
		{core.ErrUserNotFound, http.StatusNotFound},
		{core.ErrVaultNotFound, http.StatusNotFound},
		{core.ErrThesisPointNotFound, http.StatusNotFound},
		{storage.ErrFileNotFound, http.StatusNotFound},
		{core.ErrOwnershipMismatch, http.StatusUnauthorized},
		{storage.ErrInvalidMimeType, http.StatusUnprocessableEntity},
		{storage.ErrSizeExceeded, http.StatusRequestEntityTooLarge},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		router := newTestRouter()
		router.GET("/boom", func(c *gin.Context) {
			respondError(c, zap.NewNop(), tc.err)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equalf(t, tc.want, rec.Code, "error %v", tc.err)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		if tc.want == http.StatusInternalServerError {
			// Internal detail must not leak to clients.
			assert.NotContains(t, body.Message, "database on fire")
		} else {
			assert.NotEmpty(t, body.Message)
		}
	}
}

func TestSignupHandler(t *testing.T) {
	svc := &stubUserService{signupResult: &core.AuthResult{UserID: "u1", Email: "a@example.com", Token: "tok"}}
	router := newTestRouter()
	router.POST("/signup", NewUserHandler(svc, zap.NewNop()).Signup)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"name":"A","email":"a@example.com","password":"hunter22"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body core.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u1", body.UserID)
	assert.Equal(t, "tok", body.Token)
}

func TestSignupHandler_InvalidJSON(t *testing.T) {
	router := newTestRouter()
	router.POST("/signup", NewUserHandler(&stubUserService{}, zap.NewNop()).Signup)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVaultHandler_PassesIdentityAndParams(t *testing.T) {
	svc := &stubVaultService{
		vault:  &models.Vault{ID: "v1", Name: "NVDA"},
		points: []*models.ThesisPoint{},
	}
	router := newTestRouter()
	router.GET("/api/vaults/:vaultId", injectUser("u1"), NewVaultHandler(svc, zap.NewNop()).GetVault)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vaults/v1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", svc.gotUserID)
	assert.Equal(t, "v1", svc.gotVaultID)

	var body struct {
		Vault  models.Vault         `json:"vault"`
		Thesis []models.ThesisPoint `json:"thesis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NVDA", body.Vault.Name)
	assert.NotNil(t, body.Thesis)
}

func TestDeleteVaultHandler_IncludesWarnings(t *testing.T) {
	svc := &stubVaultService{warnings: []string{"some attachment files could not be removed from storage"}}
	router := newTestRouter()
	router.DELETE("/api/vaults/:vaultId", injectUser("u1"), NewVaultHandler(svc, zap.NewNop()).DeleteVault)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/vaults/v1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message  string   `json:"message"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Successfully deleted vault", body.Message)
	assert.Len(t, body.Warnings, 1)
}

func TestVaultHandler_MissingUserContext(t *testing.T) {
	router := newTestRouter()
	router.GET("/api/vaults", NewVaultHandler(&stubVaultService{}, zap.NewNop()).ListVaults)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vaults", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func buildMultipart(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_Success(t *testing.T) {
	svc := &stubAttachmentService{
		result: &core.UploadResult{
			Uploaded: []models.Attachment{{Key: "obj-1.pdf", OriginalName: "a.pdf", URL: "https://bucket/obj-1.pdf"}},
		},
	}
	router := newTestRouter()
	router.POST("/api/vaults/:vaultId/upload", injectUser("u1"), NewUploadHandler(svc, zap.NewNop()).Upload)

	body, contentType := buildMultipart(t, uploadFieldName, map[string][]byte{"a.pdf": []byte("%PDF")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/vaults/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result core.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Uploaded, 1)
	assert.Equal(t, "obj-1.pdf", result.Uploaded[0].Key)
}

func TestUploadHandler_OversizedFileReportedWithoutUpload(t *testing.T) {
	// The stub only answers for the valid file; the oversized one is
	// rejected by the handler before the service sees it.
	svc := &stubAttachmentService{result: &core.UploadResult{Uploaded: []models.Attachment{}}}
	router := newTestRouter()
	router.POST("/api/vaults/:vaultId/upload", injectUser("u1"), NewUploadHandler(svc, zap.NewNop()).Upload)

	body, contentType := buildMultipart(t, uploadFieldName, map[string][]byte{
		"huge.pdf": make([]byte, storage.MaxAttachmentSize+1),
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/vaults/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result core.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "huge.pdf", result.Failed[0].Name)
}

func TestUploadHandler_WrongField(t *testing.T) {
	router := newTestRouter()
	router.POST("/api/vaults/:vaultId/upload", injectUser("u1"), NewUploadHandler(&stubAttachmentService{}, zap.NewNop()).Upload)

	body, contentType := buildMultipart(t, "wrongField", map[string][]byte{"a.pdf": []byte("%PDF")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/vaults/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteStagedAttachmentHandler(t *testing.T) {
	svc := &stubAttachmentService{remaining: []models.Attachment{{Key: "b.png"}}}
	router := newTestRouter()
	router.DELETE("/api/vaults/:vaultId/upload", injectUser("u1"), NewUploadHandler(svc, zap.NewNop()).DeleteStagedAttachment)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/vaults/v1/upload",
		strings.NewReader(`{"fileName":"a.pdf","uploadedFiles":[{"key":"a.pdf"},{"key":"b.png"}]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Updated []models.Attachment `json:"updatedUploadedFiles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Updated, 1)
	assert.Equal(t, "b.png", body.Updated[0].Key)
}
