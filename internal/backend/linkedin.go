package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LinkedInSearch triggers a signal scrape for the given keywords.
func (c *Client) LinkedInSearch(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.request(ctx, http.MethodPost, "/api/v1/linkedin/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LinkedInLeads lists scraped leads, optionally filtered by keyword.
func (c *Client) LinkedInLeads(ctx context.Context, skip, limit int, keyword string) (*LeadListResponse, error) {
	params := url.Values{}
	params.Set("skip", fmt.Sprintf("%d", skip))
	params.Set("limit", fmt.Sprintf("%d", limit))
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	var resp LeadListResponse
	if err := c.request(ctx, http.MethodGet, "/api/v1/linkedin/leads?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LinkedInLead fetches one lead's detail, including the DM generation status.
func (c *Client) LinkedInLead(ctx context.Context, id string) (*LeadDetail, error) {
	var resp LeadDetail
	if err := c.request(ctx, http.MethodGet, "/api/v1/linkedin/leads/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshLead re-runs signal analysis and DM drafting for a lead.
func (c *Client) RefreshLead(ctx context.Context, id string) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.request(ctx, http.MethodPost, "/api/v1/linkedin/leads/"+id+"/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendDM sends the drafted (or overridden) direct message to a lead.
// An HTTP 422 is a valid business-failure body here, not an error: the
// caller must branch on SendResult.Success.
func (c *Client) SendDM(ctx context.Context, id, message string) (*SendResult, error) {
	body := map[string]string{}
	if message != "" {
		body["message"] = message
	}

	var resp SendResult
	if err := c.requestSoft(ctx, http.MethodPost, "/api/v1/linkedin/dm/leads/"+id+"/send-dm", body, &resp, http.StatusUnprocessableEntity); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendConnection sends a connection request to a lead. Shares the 422
// carve-out with SendDM.
func (c *Client) SendConnection(ctx context.Context, id string) (*SendResult, error) {
	var resp SendResult
	if err := c.requestSoft(ctx, http.MethodPost, "/api/v1/linkedin/dm/leads/"+id+"/connect", nil, &resp, http.StatusUnprocessableEntity); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkSend issues a batch DM or connection send for the selected leads.
func (c *Client) BulkSend(ctx context.Context, req *BulkSendRequest) (*BulkSendResponse, error) {
	var resp BulkSendResponse
	if err := c.request(ctx, http.MethodPost, "/api/v1/linkedin/dm/bulk-send", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
