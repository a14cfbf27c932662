package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/lead"
)

// ErrGateway marks any failure talking to the remote store: transport
// errors, non-success responses and malformed payloads alike.
var ErrGateway = errors.New("airtable gateway error")

type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("airtable request failed: status=%d type=%s message=%s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable request failed: status=%d message=%s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrGateway
}

const statusField = "Lead Status"

type ClientOptions struct {
	BaseURL    string
	Token      string
	BaseID     string
	TableID    string
	HTTPClient *http.Client
	PageSize   int
	UserAgent  string
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Client talks to the Airtable REST API: cursor-paginated listing and
// single-record status patches.
type Client struct {
	baseURL    string
	token      string
	baseID     string
	tableID    string
	httpClient *http.Client
	pageSize   int
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.airtable.com"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		baseID:     strings.TrimSpace(opts.BaseID),
		tableID:    strings.TrimSpace(opts.TableID),
		httpClient: httpClient,
		pageSize:   pageSize,
		userAgent:  strings.TrimSpace(opts.UserAgent),
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
	}
}

type listPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// ListRecords fetches every row of the table, following the offset
// cursor until the remote store stops returning one.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	var all []Record
	offset := ""
	for {
		records, next, err := c.listPageAt(ctx, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		if next == "" {
			return all, nil
		}
		offset = next
	}
}

func (c *Client) listPageAt(ctx context.Context, offset string) ([]Record, string, error) {
	endpoint := fmt.Sprintf("%s/v0/%s/%s?pageSize=%d", c.baseURL, c.baseID, c.tableID, c.pageSize)
	if offset != "" {
		endpoint += "&offset=" + url.QueryEscape(offset)
	}
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	if err := validateListPage(body); err != nil {
		return nil, "", &APIError{StatusCode: http.StatusOK, Type: "malformed_payload", Message: err.Error()}
	}
	var page listPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", &APIError{StatusCode: http.StatusOK, Type: "malformed_payload", Message: err.Error()}
	}
	return page.Records, page.Offset, nil
}

// UpdateStatus patches one record's status field, translating the
// canonical status into the remote label vocabulary.
func (c *Client) UpdateStatus(ctx context.Context, recordID string, status lead.Status) error {
	if strings.TrimSpace(recordID) == "" {
		return fmt.Errorf("record id is required")
	}
	payload, err := json.Marshal(map[string]any{
		"fields": map[string]string{statusField: status.RemoteLabel()},
	})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/v0/%s/%s/%s", c.baseURL, c.baseID, c.tableID, url.PathEscape(recordID))
	_, err = c.do(ctx, http.MethodPatch, endpoint, payload)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("airtable client is nil")
	}
	if c.token == "" {
		return nil, fmt.Errorf("airtable token is required")
	}
	if c.baseID == "" || c.tableID == "" {
		return nil, fmt.Errorf("airtable base and table ids are required")
	}

	for attempt := 0; ; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return respBody, nil
		}

		if (resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode <= 599)) && attempt < c.maxRetries {
			if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var parsed struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &parsed) == nil {
			if parsed.Error.Type != "" {
				apiErr.Type = parsed.Error.Type
			}
			if strings.TrimSpace(parsed.Error.Message) != "" {
				apiErr.Message = parsed.Error.Message
			}
		}
		return nil, apiErr
	}
}

func (c *Client) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	if retryAfter := parseRetryAfterSeconds(retryAfterHeader); retryAfter > 0 {
		if retryAfter > c.maxDelay {
			return c.maxDelay
		}
		return retryAfter
	}
	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxDelay {
			return c.maxDelay
		}
	}
	if delay > c.maxDelay {
		return c.maxDelay
	}
	return delay
}

func parseRetryAfterSeconds(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
