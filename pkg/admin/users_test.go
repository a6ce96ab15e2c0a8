package admin

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Limited(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestWithQuery(http.MethodGet, "/users/limited", url.Values{
		"page":  {"1"},
		"limit": {"10"},
	}), mock.Anything).
		Return(`{"users": [{"user_id": "u1", "is_blocked": true, "usage": {"user_id": "u1", "total_tokens": 9000}}], "total": 1, "page": 1, "limit": 10, "totalPages": 1}`, nil)

	list, err := client.Users.Limited(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list.Users, 1)
	assert.True(t, list.Users[0].IsBlocked)
	assert.Equal(t, 9000, list.Users[0].Usage.TotalTokens)
}

func TestUserService_BlockUnblock(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request(http.MethodPost, "/users/u1/block"), mock.Anything).
		Return(`{"user_id": "u1", "is_blocked": true}`, nil)
	mockTransport.On("Do", mock.Anything, request(http.MethodPost, "/users/u1/unblock"), mock.Anything).
		Return(`{"user_id": "u1", "is_blocked": false}`, nil)

	blocked, err := client.Users.Block(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := client.Users.Unblock(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)

	_, err = client.Users.Block(context.Background(), "")
	assert.True(t, IsValidationError(err))

	mockTransport.AssertNumberOfCalls(t, "Do", 2)
}

func TestUserService_TokenUsage(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request(http.MethodGet, "/users/u1/token-usage"), mock.Anything).
		Return(`{"user_id": "u1", "total_tokens": 1500, "daily_limit": 2000, "last_reset": "2025-03-02T00:00:00Z"}`, nil)

	usage, err := client.Users.TokenUsage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1500, usage.TotalTokens)
	assert.Equal(t, 2000, usage.DailyLimit)
	assert.Equal(t, 2, usage.LastReset.Day())
}

func TestSettingsService(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)
	ctx := context.Background()

	mockTransport.On("Do", mock.Anything, request(http.MethodPut, "/tokens/settings"), mock.Anything).
		Return(`{"daily_token_limit": 5000}`, nil)
	mockTransport.On("Do", mock.Anything, request(http.MethodGet, "/system/settings"), mock.Anything).
		Return(`{"max_workers": 4, "cache_enabled": true}`, nil)

	updated, err := client.Settings.UpdateTokenSettings(ctx, &TokenSettings{DailyTokenLimit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 5000, updated.DailyTokenLimit)

	_, err = client.Settings.UpdateTokenSettings(ctx, &TokenSettings{DailyTokenLimit: -1})
	assert.True(t, IsValidationError(err))

	system, err := client.Settings.SystemSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, system["cache_enabled"])
	assert.EqualValues(t, 4, system["max_workers"])

	_, err = client.Settings.UpdateSystemSettings(ctx, SystemSettings{})
	assert.True(t, IsValidationError(err))

	mockTransport.AssertNumberOfCalls(t, "Do", 2)
}

func TestDocumentService_Upload(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	var sent *transport.Request
	matcher := mock.MatchedBy(func(req *transport.Request) bool {
		return req.Method == http.MethodPost && req.Path == "/documents/upload"
	})
	mockTransport.On("Do", mock.Anything, matcher, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*transport.Request) }).
		Return(`{"success": true, "message": "uploaded", "id": "d1"}`, nil)

	result, err := client.Documents.Upload(context.Background(), "guide.pdf", strings.NewReader("%PDF-1.4"), &DocumentMetadata{
		Description: "User guide",
		Language:    "en",
		Extra:       map[string]string{"version": "2", "blank": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", result.ID)
	require.NotNil(t, sent)

	mediaType, params, err := mime.ParseMediaType(sent.ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(sent.RawBody), params["boundary"])
	fields := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FormName() == "file" {
			assert.Equal(t, "guide.pdf", part.FileName())
		}
		fields[part.FormName()] = string(data)
	}

	assert.Equal(t, map[string]string{
		"file":        "%PDF-1.4",
		"description": "User guide",
		"language":    "en",
		"version":     "2",
	}, fields)
}

func TestDocumentService_UploadValidation(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	_, err := client.Documents.Upload(context.Background(), "", strings.NewReader("x"), nil)
	assert.True(t, IsValidationError(err))

	_, err = client.Documents.Upload(context.Background(), "a.txt", nil, nil)
	assert.True(t, IsValidationError(err))

	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_ListDelete(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request(http.MethodGet, "/documents"), mock.Anything).
		Return(`{"documents": [{"id": "d1", "filename": "guide.pdf", "uploaded_at": "2025-03-01T12:00:00"}], "total": 1, "page": 1, "limit": 10}`, nil)
	mockTransport.On("Do", mock.Anything, request(http.MethodDelete, "/documents/d1"), nil).Return(nil, nil)

	list, err := client.Documents.List(context.Background(), &ListParams{})
	require.NoError(t, err)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, "guide.pdf", list.Documents[0].Filename)

	require.NoError(t, client.Documents.Delete(context.Background(), "d1"))
	mockTransport.AssertExpectations(t)
}
