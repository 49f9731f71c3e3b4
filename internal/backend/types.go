package backend

import "time"

// GenerationStatus is the tri-state progress of AI message drafting for a lead.
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationGenerated GenerationStatus = "generated"
	GenerationFailed    GenerationStatus = "failed"
)

// JobStatus is the server-owned lifecycle state of a bulk job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobPaused    JobStatus = "paused"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status accepts no further transition commands.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// LeadSummary is the list-rendering snapshot of a LinkedIn lead. Replaced
// wholesale on each fetch, never patched field by field.
type LeadSummary struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Headline           string           `json:"headline,omitempty"`
	Company            string           `json:"company,omitempty"`
	Keyword            string           `json:"keyword,omitempty"`
	ConnectionSent     bool             `json:"connection_sent"`
	Connected          bool             `json:"connected"`
	DMSent             bool             `json:"dm_sent"`
	DMGenerationStatus GenerationStatus `json:"dm_generation_status"`
}

// LeadDetail is a LeadSummary plus the generated content and generation
// timing used by the DM status poller.
type LeadDetail struct {
	LeadSummary
	ProfileURL          string     `json:"profile_url,omitempty"`
	PostText            string     `json:"post_text,omitempty"`
	HiringSignal        string     `json:"hiring_signal,omitempty"`
	LinkedInDM          string     `json:"linkedin_dm,omitempty"`
	GenerationStartedAt *time.Time `json:"generation_started_at,omitempty"`
}

// SearchRequest triggers a LinkedIn signal scrape on the backend.
type SearchRequest struct {
	Keywords        []string `json:"keywords"`
	DateFilter      string   `json:"date_filter,omitempty"`
	PostsPerKeyword int      `json:"posts_per_keyword,omitempty"`
}

type SearchStats struct {
	PostsFound     int `json:"posts_found"`
	LeadsExtracted int `json:"leads_extracted"`
	DMsGenerated   int `json:"dms_generated"`
}

type SearchResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   SearchStats `json:"stats"`
}

type LeadListResponse struct {
	Leads             []LeadSummary `json:"leads"`
	TotalCount        int           `json:"total_count"`
	AvailableKeywords []string      `json:"available_keywords,omitempty"`
}

type RefreshResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	HiringSignal string `json:"hiring_signal,omitempty"`
	LinkedInDM   string `json:"linkedin_dm,omitempty"`
}

// SendResult is the body of the DM-send and connection-send endpoints. The
// backend encodes business rejection ("not connected yet") as an HTTP 422
// carrying success=false, so this shape is returned for both 2xx and 422.
type SendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BulkSendRequest struct {
	LeadIDs  []string `json:"lead_ids"`
	SendType string   `json:"send_type"`
	Message  string   `json:"message,omitempty"`
}

type BulkSendItemResult struct {
	LeadID  string `json:"lead_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkSendResponse struct {
	Total      int                  `json:"total"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	Results    []BulkSendItemResult `json:"results"`
}

// WhatsAppLead is a contact in the WhatsApp outreach console.
type WhatsAppLead struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Source        string     `json:"source,omitempty"`
	TemplateSent  bool       `json:"template_sent"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
}

type WhatsAppLeadListResponse struct {
	Leads      []WhatsAppLead `json:"leads"`
	TotalCount int            `json:"total_count"`
}

type WhatsAppTemplate struct {
	Name string `json:"name"`
	Body string `json:"body,omitempty"`
}

type WhatsAppTemplateListResponse struct {
	Templates []WhatsAppTemplate `json:"templates"`
}

type SendTemplateRequest struct {
	TemplateName string `json:"template_name"`
}

type SendTemplateResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkJobRequest creates a server-tracked WhatsApp batch send.
type BulkJobRequest struct {
	LeadIDs          []string `json:"lead_ids"`
	TemplateName     string   `json:"template_name"`
	BroadcastName    string   `json:"broadcast_name"`
	StartImmediately bool     `json:"start_immediately"`
}

// BulkJob is the server-owned job snapshot. The console holds a read-mostly
// cached copy refreshed by polling; it never derives transitions locally.
type BulkJob struct {
	ID              string     `json:"id"`
	BroadcastName   string     `json:"broadcast_name,omitempty"`
	TemplateName    string     `json:"template_name,omitempty"`
	Status          JobStatus  `json:"status"`
	SentCount       int        `json:"sent_count"`
	FailedCount     int        `json:"failed_count"`
	PendingCount    int        `json:"pending_count"`
	TotalCount      int        `json:"total_count"`
	ProgressPercent float64    `json:"progress_percent"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type FailedJobItem struct {
	LeadID string `json:"lead_id"`
	Phone  string `json:"phone,omitempty"`
	Error  string `json:"error"`
}

type FailedJobItemsResponse struct {
	Items      []FailedJobItem `json:"items"`
	TotalCount int             `json:"total_count"`
}

// CampaignLead is a contact in the email-campaign editor.
type CampaignLead struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Company  string `json:"company,omitempty"`
	Enriched bool   `json:"enriched"`
}

type CampaignLeadListResponse struct {
	Leads                []CampaignLead `json:"leads"`
	IncompleteLeadsCount int            `json:"incomplete_leads_count"`
}

type EnrichmentResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Lead    CampaignLead `json:"lead"`
}

// ActivityItem is an append-only outreach log entry. The console only
// accumulates pages of these, never mutates them.
type ActivityItem struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id,omitempty"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ActivityPageResponse struct {
	Items      []ActivityItem `json:"items"`
	Page       int            `json:"page"`
	TotalCount int            `json:"total_count"`
	HasMore    bool           `json:"has_more"`
}
