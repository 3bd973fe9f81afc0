package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/domain"
)

// Discord uploads the artifact as a webhook attachment. One attempt, no
// retries; a failure is the scheduler loop's to log.
type Discord struct {
	url      string
	username string
	maxBytes int64
	client   *http.Client
}

func NewDiscord(cfg *config.WebhookConfig) *Discord {
	return &Discord{
		url:      cfg.URL,
		username: cfg.Username,
		maxBytes: int64(cfg.MaxUploadMB) * 1024 * 1024,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (d *Discord) Publish(ctx context.Context, artifact domain.Artifact) error {
	if artifact.Size > d.maxBytes {
		return fmt.Errorf("%s is %d bytes, limit is %d: %w",
			artifact.Filename, artifact.Size, d.maxBytes, domain.ErrTooLarge)
	}

	file, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	payload, err := json.Marshal(map[string]string{
		"username": d.username,
		"content": fmt.Sprintf("Backup of %s created at %s (%.2f MB)",
			artifact.DatabaseName,
			artifact.CreatedAt.Format("2006-01-02 15:04:05"),
			float64(artifact.Size)/(1024*1024)),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := writer.WriteField("payload_json", string(payload)); err != nil {
		return fmt.Errorf("failed to write payload field: %w", err)
	}

	part, err := writer.CreateFormFile("files[0]", artifact.Filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy artifact into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, detail)
	}

	return nil
}
