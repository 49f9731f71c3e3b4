package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// WhatsAppLeads lists WhatsApp contacts, optionally filtered by source.
func (c *Client) WhatsAppLeads(ctx context.Context, skip, limit int, source string) (*WhatsAppLeadListResponse, error) {
	params := url.Values{}
	params.Set("skip", fmt.Sprintf("%d", skip))
	params.Set("limit", fmt.Sprintf("%d", limit))
	if source != "" {
		params.Set("source", source)
	}

	var resp WhatsAppLeadListResponse
	if err := c.request(ctx, http.MethodGet, "/api/v1/whatsapp/leads?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WhatsAppTemplates lists the approved message templates.
func (c *Client) WhatsAppTemplates(ctx context.Context) (*WhatsAppTemplateListResponse, error) {
	var resp WhatsAppTemplateListResponse
	if err := c.request(ctx, http.MethodGet, "/api/v1/whatsapp/templates", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendWhatsAppTemplate sends one template message to a single lead.
func (c *Client) SendWhatsAppTemplate(ctx context.Context, leadID, templateName string) (*SendTemplateResponse, error) {
	req := SendTemplateRequest{TemplateName: templateName}
	var resp SendTemplateResponse
	if err := c.request(ctx, http.MethodPost, "/api/v1/whatsapp/leads/"+leadID+"/send", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBulkJob registers a batch send with the backend and returns the
// initial job snapshot. The job stays pending unless StartImmediately is set.
func (c *Client) CreateBulkJob(ctx context.Context, req *BulkJobRequest) (*BulkJob, error) {
	var resp BulkJob
	if err := c.request(ctx, http.MethodPost, "/api/v1/whatsapp/bulk/jobs", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartBulkJob asks the server to start (or resume) a job. The server's
// response snapshot is the new truth; the console never transitions locally.
func (c *Client) StartBulkJob(ctx context.Context, id string) (*BulkJob, error) {
	return c.jobCommand(ctx, id, "start")
}

// PauseBulkJob asks the server to pause a running job.
func (c *Client) PauseBulkJob(ctx context.Context, id string) (*BulkJob, error) {
	return c.jobCommand(ctx, id, "pause")
}

// CancelBulkJob asks the server to cancel a job.
func (c *Client) CancelBulkJob(ctx context.Context, id string) (*BulkJob, error) {
	return c.jobCommand(ctx, id, "cancel")
}

func (c *Client) jobCommand(ctx context.Context, id, command string) (*BulkJob, error) {
	var resp BulkJob
	if err := c.request(ctx, http.MethodPost, "/api/v1/whatsapp/bulk/jobs/"+id+"/"+command, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBulkJob fetches the current job snapshot.
func (c *Client) GetBulkJob(ctx context.Context, id string) (*BulkJob, error) {
	var resp BulkJob
	if err := c.request(ctx, http.MethodGet, "/api/v1/whatsapp/bulk/jobs/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkJobFailedItems fetches one page of failed items for operator diagnosis.
func (c *Client) BulkJobFailedItems(ctx context.Context, id string, page int) (*FailedJobItemsResponse, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))

	var resp FailedJobItemsResponse
	if err := c.request(ctx, http.MethodGet, "/api/v1/whatsapp/bulk/jobs/"+id+"/failed?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
