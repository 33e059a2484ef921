package client

import "context"

// GuidelinesClient fetches reporting guideline checklists.
type GuidelinesClient struct {
	client *Client
}

// List returns all available guideline checklists.
func (gc *GuidelinesClient) List(ctx context.Context) (*ChecklistList, error) {
	var list ChecklistList
	if err := gc.client.get(ctx, "/api/v1/guidelines", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Consort returns the CONSORT checklist.
func (gc *GuidelinesClient) Consort(ctx context.Context) (*Checklist, error) {
	var checklist Checklist
	if err := gc.client.get(ctx, "/api/v1/guidelines/consort", &checklist); err != nil {
		return nil, err
	}
	return &checklist, nil
}

// Spirit returns the SPIRIT checklist.
func (gc *GuidelinesClient) Spirit(ctx context.Context) (*Checklist, error) {
	var checklist Checklist
	if err := gc.client.get(ctx, "/api/v1/guidelines/spirit", &checklist); err != nil {
		return nil, err
	}
	return &checklist, nil
}
