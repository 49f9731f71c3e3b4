package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/leadpilot/leadpilot/internal/metrics"
)

// Verification modes accepted by the backend.
const (
	VerifyModeIndividual = "individual"
	VerifyModeBulk       = "bulk"
)

// VerifiedFilename is the suggested download name for the verification output.
const VerifiedFilename = "verified_leads_output.xlsx"

// MaxUploadSize bounds lead files accepted for verification.
const MaxUploadSize = 10 << 20

var allowedUploadExts = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// ValidateLeadFile rejects unsupported uploads before any network call.
func ValidateLeadFile(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedUploadExts[ext] {
		return fmt.Errorf("unsupported file type %q: expected .csv, .xlsx or .xls", ext)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", size, MaxUploadSize)
	}
	return nil
}

// VerifyResult is the verified spreadsheet returned by the backend.
type VerifyResult struct {
	Filename string
	Data     []byte
}

// VerifyLeads uploads a lead file for verification and returns the verified
// spreadsheet blob. A non-2xx response surfaces as an *APIError carrying the
// server's detail message, and no data is returned.
func (c *Client) VerifyLeads(ctx context.Context, filename string, file io.Reader, mode string) (*VerifyResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.WriteField("verification_mode", mode); err != nil {
		return nil, fmt.Errorf("write mode field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/verify-leads/", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackendRequest("verify-leads", http.MethodPost, "error", time.Since(start))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackendRequest("verify-leads", http.MethodPost, statusClass(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &VerifyResult{Filename: VerifiedFilename, Data: data}, nil
}
