package admin

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/pkg/errors"
)

// chatService implements the ChatService interface
type chatService struct {
	client *Client
}

// List retrieves a page of chat sessions
func (s *chatService) List(ctx context.Context, params *ChatListParams) (*ChatList, error) {
	query, err := chatListQuery(params, true)
	if err != nil {
		return nil, err
	}

	var result ChatList
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/chats", Query: query}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}

	return &result, nil
}

// UserHistory retrieves a page of one user's sessions
func (s *chatService) UserHistory(ctx context.Context, userID string, params *ChatListParams) (*ChatList, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}

	query, err := chatListQuery(params, false)
	if err != nil {
		return nil, err
	}

	var result ChatList
	path := "/history/" + url.PathEscape(userID)
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: path, Query: query}, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to get chat history for %s", userID)
	}

	return &result, nil
}

// Get retrieves a single session
func (s *chatService) Get(ctx context.Context, chatID string) (*ChatSession, error) {
	if err := requireID("chat_id", chatID); err != nil {
		return nil, err
	}

	var result ChatSession
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/chats/" + url.PathEscape(chatID)}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get chat")
	}

	return &result, nil
}

// Delete removes a session
func (s *chatService) Delete(ctx context.Context, chatID string) error {
	if err := requireID("chat_id", chatID); err != nil {
		return err
	}

	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodDelete, Path: "/chats/" + url.PathEscape(chatID)}, nil); err != nil {
		return errors.Wrap(err, "failed to delete chat")
	}

	return nil
}

// Export writes the filtered history to w
func (s *chatService) Export(ctx context.Context, params *ChatExportParams, w io.Writer) (int64, error) {
	if params == nil {
		params = &ChatExportParams{}
	}

	format, err := exportFormat(params.Format)
	if err != nil {
		return 0, err
	}

	query := url.Values{"format": {format}}
	setIf(query, "user_id", params.UserID)
	setIf(query, "date_from", params.DateFrom)
	setIf(query, "date_to", params.DateTo)

	body, _, err := s.client.executeRaw(ctx, &transport.Request{Method: http.MethodGet, Path: "/chats/export", Query: query})
	if err != nil {
		return 0, errors.Wrap(err, "failed to export chats")
	}

	n, err := w.Write(body)
	if err != nil {
		return int64(n), errors.Wrap(err, "failed to write chat export")
	}

	return int64(n), nil
}

// chatListQuery encodes pagination and filters; user_id is part of the
// path for per-user history
func chatListQuery(params *ChatListParams, withUser bool) (url.Values, error) {
	if params == nil {
		params = &ChatListParams{}
	}

	query, err := pageQuery(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}

	if withUser {
		setIf(query, "user_id", params.UserID)
	}
	setIf(query, "date_from", params.DateFrom)
	setIf(query, "date_to", params.DateTo)

	return query, nil
}
