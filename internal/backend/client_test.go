package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{
			name:       "detail field",
			status:     http.StatusBadRequest,
			body:       `{"detail": "Invalid format"}`,
			wantDetail: "Invalid format",
		},
		{
			name:       "message fallback",
			status:     http.StatusInternalServerError,
			body:       `{"message": "backend exploded"}`,
			wantDetail: "backend exploded",
		},
		{
			name:       "unparseable body falls back to status",
			status:     http.StatusBadGateway,
			body:       "<html>nope</html>",
			wantDetail: "HTTP 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "")
			_, err := c.LinkedInLead(context.Background(), "l1")
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Error() != tt.wantDetail {
				t.Errorf("Error() = %q, want %q", apiErr.Error(), tt.wantDetail)
			}
		})
	}
}

func TestRequestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.LinkedInLead(context.Background(), "l1")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestRequestAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	if _, err := c.CampaignLeads(context.Background()); err != nil {
		t.Fatalf("CampaignLeads() error = %v", err)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want Bearer secret-key", gotAuth)
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/linkedin/leads/42", "linkedin"},
		{"/api/v1/whatsapp/bulk/jobs", "whatsapp"},
		{"/api/v1/leads/", "leads"},
		{"/api/v1/activity?page=1", "activity"},
		{"/health", "other"},
	}

	for _, tt := range tests {
		if got := domainOf(tt.path); got != tt.want {
			t.Errorf("domainOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestJobStatusTerminal(t *testing.T) {
	terminal := []JobStatus{JobCompleted, JobFailed, JobCancelled}
	active := []JobStatus{JobPending, JobRunning, JobPaused}

	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}
