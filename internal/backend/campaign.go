package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CampaignLeads lists the email-campaign leads and the incomplete count.
func (c *Client) CampaignLeads(ctx context.Context) (*CampaignLeadListResponse, error) {
	var resp CampaignLeadListResponse
	if err := c.request(ctx, http.MethodGet, "/api/v1/leads/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnrichLead runs backend enrichment for a campaign lead.
func (c *Client) EnrichLead(ctx context.Context, id string) (*EnrichmentResponse, error) {
	var resp EnrichmentResponse
	if err := c.request(ctx, http.MethodPost, "/api/v1/enrichment/"+id+"/enrich", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Activity fetches one page of the append-only outreach activity log.
func (c *Client) Activity(ctx context.Context, page, pageSize int) (*ActivityPageResponse, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("page_size", fmt.Sprintf("%d", pageSize))

	var resp ActivityPageResponse
	if err := c.request(ctx, http.MethodGet, "/api/v1/activity?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
