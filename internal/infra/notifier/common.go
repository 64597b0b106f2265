package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"msgsend/internal/domain/entity"
)

const (
	// maxResponseBytes bounds how much of a vendor response is read.
	maxResponseBytes = 1 << 20

	// maxErrorBodyLength bounds how much of a vendor body ends up in error strings.
	maxErrorBodyLength = 512
	truncationSuffix   = "..."
)

// VendorError reports that a vendor answered but did not accept the message.
// It unwraps to entity.ErrNotDelivered.
type VendorError struct {
	Channel    string
	StatusCode int
	Body       string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%s rejected the message (status %d): %s",
		e.Channel, e.StatusCode, truncateBody(e.Body, maxErrorBodyLength, truncationSuffix))
}

func (e *VendorError) Unwrap() error {
	return entity.ErrNotDelivered
}

// ClientError represents a 4xx response whose body could not be decoded.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx response whose body could not be decoded.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// response is a decoded vendor answer together with the raw body kept for logs.
type response struct {
	StatusCode int
	Body       []byte
}

// newJSONRequest builds a request carrying payload as a JSON body.
func newJSONRequest(ctx context.Context, method, target string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", redactURLError(err))
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req, nil
}

// newFormRequest builds a POST request with an url-encoded form body.
func newFormRequest(ctx context.Context, target string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", redactURLError(err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// exchange executes req and decodes the JSON body into out.
//
// Vendors report rejections inside the body, often with a 200 status, so the
// body is decoded whatever the status. A body that is not JSON becomes a
// *ClientError or *ServerError for 4xx/5xx statuses and a decode error otherwise.
func exchange(client *http.Client, req *http.Request, channel string, out any) (response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("execute http request: %w", redactURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{StatusCode: resp.StatusCode}, fmt.Errorf("read response body: %w", err)
	}
	r := response{StatusCode: resp.StatusCode, Body: body}

	if err := json.Unmarshal(body, out); err != nil {
		snippet := truncateBody(string(body), maxErrorBodyLength, truncationSuffix)
		switch {
		case resp.StatusCode >= 500:
			return r, &ServerError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("%s server error: %s", channel, snippet),
			}
		case resp.StatusCode >= 400:
			return r, &ClientError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("%s client error: %s", channel, snippet),
			}
		}
		return r, fmt.Errorf("decode %s response: %w", channel, err)
	}
	return r, nil
}

// rejected builds the VendorError for a decoded response.
func rejected(channel string, r response) *VendorError {
	return &VendorError{Channel: channel, StatusCode: r.StatusCode, Body: string(r.Body)}
}

// singleToken extracts the token of a single-string credential.
func singleToken(channel string, cred entity.Credential) (string, error) {
	if cred.IsList() {
		return "", fmt.Errorf("%s: %w: expected a single token, got %s",
			channel, entity.ErrInvalidCredential, cred.Redacted())
	}
	if !cred.Valid() {
		return "", fmt.Errorf("%s: %w: token is empty", channel, entity.ErrInvalidCredential)
	}
	return cred.String(), nil
}

// truncateBody truncates text to maxLength bytes.
// If truncated, appends suffix to indicate continuation.
func truncateBody(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}

	truncateAt := maxLength - len(suffix)
	if truncateAt < 0 {
		truncateAt = 0
	}

	return text[:truncateAt] + suffix
}
