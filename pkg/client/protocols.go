package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ProtocolsClient manages protocol documents.
type ProtocolsClient struct {
	client *Client
}

// Upload submits a protocol document for processing.
func (pc *ProtocolsClient) Upload(ctx context.Context, filename string, data []byte) (*Protocol, error) {
	if filename == "" {
		return nil, fmt.Errorf("protoscribe: filename is required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("protoscribe: file data is empty")
	}
	var protocol Protocol
	if err := pc.client.upload(ctx, "/api/v1/protocols/upload", filename, data, &protocol); err != nil {
		return nil, err
	}
	return &protocol, nil
}

// CreateSample creates a built-in sample protocol for experimentation.
func (pc *ProtocolsClient) CreateSample(ctx context.Context) (*Protocol, error) {
	var protocol Protocol
	if err := pc.client.post(ctx, "/api/v1/protocols/create-sample", nil, &protocol); err != nil {
		return nil, err
	}
	return &protocol, nil
}

// List returns a page of protocols, optionally filtered by status.
func (pc *ProtocolsClient) List(ctx context.Context, page, pageSize int, status string) (*ProtocolList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}
	if status != "" {
		query.Set("status", status)
	}
	path := "/api/v1/protocols"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var list ProtocolList
	if err := pc.client.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get fetches a protocol by ID. Set includeContent to receive the full text.
func (pc *ProtocolsClient) Get(ctx context.Context, id string, includeContent bool) (*Protocol, error) {
	if id == "" {
		return nil, fmt.Errorf("protoscribe: protocol ID is required")
	}
	path := "/api/v1/protocols/" + url.PathEscape(id)
	if includeContent {
		path += "?include_content=true"
	}
	var protocol Protocol
	if err := pc.client.get(ctx, path, &protocol); err != nil {
		return nil, err
	}
	return &protocol, nil
}

// Delete removes a protocol and its stored document and analyses.
func (pc *ProtocolsClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("protoscribe: protocol ID is required")
	}
	return pc.client.delete(ctx, "/api/v1/protocols/"+url.PathEscape(id))
}
