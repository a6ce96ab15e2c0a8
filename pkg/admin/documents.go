package admin

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/pkg/errors"
)

// documentService implements the DocumentService interface
type documentService struct {
	client *Client
}

// Upload sends r as a multipart file named filename
func (s *documentService) Upload(ctx context.Context, filename string, r io.Reader, metadata *DocumentMetadata) (*OperationResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, newValidationError("file", "File name is required", filename)
	}
	if r == nil {
		return nil, newValidationError("file", "File is required", nil)
	}

	body, contentType, err := buildUpload(filename, r, metadata)
	if err != nil {
		return nil, err
	}

	var result OperationResult
	err = s.client.execute(ctx, &transport.Request{
		Method:      http.MethodPost,
		Path:        "/documents/upload",
		RawBody:     body,
		ContentType: contentType,
	}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload document")
	}

	return &result, nil
}

// List retrieves a page of documents
func (s *documentService) List(ctx context.Context, params *ListParams) (*DocumentList, error) {
	if params == nil {
		params = &ListParams{}
	}

	query, err := pageQuery(params.Page, params.Limit)
	if err != nil {
		return nil, err
	}

	var result DocumentList
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/documents", Query: query}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	return &result, nil
}

// Delete removes a document from the index
func (s *documentService) Delete(ctx context.Context, documentID string) error {
	if err := requireID("document_id", documentID); err != nil {
		return err
	}

	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodDelete, Path: "/documents/" + url.PathEscape(documentID)}, nil); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}

	return nil
}

// buildUpload encodes the file and its metadata as multipart form data
func buildUpload(filename string, r io.Reader, metadata *DocumentMetadata) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create form file")
	}

	if _, err := io.Copy(part, r); err != nil {
		return nil, "", errors.Wrap(err, "failed to write file data")
	}

	for _, field := range metadataFields(metadata) {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write %s field", field[0])
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to close multipart writer")
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

// metadataFields flattens metadata into ordered form fields, skipping blanks
func metadataFields(metadata *DocumentMetadata) [][2]string {
	if metadata == nil {
		return nil
	}

	var fields [][2]string
	add := func(k, v string) {
		if v != "" {
			fields = append(fields, [2]string{k, v})
		}
	}

	add("description", metadata.Description)
	add("category", metadata.Category)
	add("language", metadata.Language)

	keys := make([]string, 0, len(metadata.Extra))
	for k := range metadata.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, metadata.Extra[k])
	}

	return fields
}
