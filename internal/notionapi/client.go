package notionapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"steamledger/internal/models"
	"steamledger/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const pagesPath = "/v1/pages"

// ErrRateLimited is returned for HTTP 429 answers.
var ErrRateLimited = errors.New("notion: rate limited")

// APIError is any other non-success answer. Code and Message come from
// the error object Notion returns.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL    string
	key        string
	version    string
	databaseID string
	properties structures.RecordProperties
	client     *http.Client
}

func NewClient(conf *structures.Config) *Client {
	timeout := conf.RecordStore.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(conf.RecordStore.BaseURL, "/"),
		key:        conf.Credentials.NotionKey,
		version:    conf.RecordStore.Version,
		databaseID: conf.Credentials.NotionDatabaseID,
		properties: conf.RecordStore.Properties,
		client:     &http.Client{Timeout: timeout},
	}
}

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Text textContent `json:"text"`
}

type dateValue struct {
	Start string `json:"start"`
}

type property struct {
	Title  []richText `json:"title,omitempty"`
	Number *int64     `json:"number,omitempty"`
	Date   *dateValue `json:"date,omitempty"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     parent              `json:"parent"`
	Properties map[string]property `json:"properties"`
}

// CreateEntry creates one database page for an activity record.
func (c *Client) CreateEntry(ctx context.Context, rec models.ActivityRecord) error {
	appID := int64(rec.AppID)
	minutes := rec.ActivityMinutes
	payload := createPageRequest{
		Parent: parent{DatabaseID: c.databaseID},
		Properties: map[string]property{
			c.properties.Title:   {Title: []richText{{Text: textContent{Content: rec.Name}}}},
			c.properties.AppID:   {Number: &appID},
			c.properties.Minutes: {Number: &minutes},
			c.properties.Date:    {Date: &dateValue{Start: rec.ActivityDate.Format(models.ActivityDateLayout)}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pagesPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return parseAPIError(resp.StatusCode, raw)
	}
}

func parseAPIError(status int, raw []byte) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(status)
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	apiErr.Status = status
	return apiErr
}
