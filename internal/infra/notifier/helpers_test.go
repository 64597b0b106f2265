package notifier

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// originalHostHeader carries the host the adapter addressed before rewriting.
const originalHostHeader = "X-Original-Host"

// rewriteTransport sends every request to target whatever host it names, so
// adapters can be tested against their real default endpoints.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set(originalHostHeader, req.URL.Host)
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

// recordedRequest is what the fake vendor saw.
type recordedRequest struct {
	Method      string
	Host        string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// fakeVendor is an httptest server answering every request with the next
// queued response (the last one repeats).
type fakeVendor struct {
	server *httptest.Server

	mu        sync.Mutex
	requests  []recordedRequest
	responses []fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeVendor(t *testing.T, responses ...fakeResponse) *fakeVendor {
	t.Helper()
	fv := &fakeVendor{responses: responses}
	fv.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		fv.mu.Lock()
		idx := len(fv.requests)
		fv.requests = append(fv.requests, recordedRequest{
			Method:      r.Method,
			Host:        r.Header.Get(originalHostHeader),
			Path:        r.URL.EscapedPath(),
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		resp := fakeResponse{status: http.StatusOK, body: "{}"}
		if len(fv.responses) > 0 {
			if idx >= len(fv.responses) {
				idx = len(fv.responses) - 1
			}
			resp = fv.responses[idx]
		}
		fv.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(fv.server.Close)
	return fv
}

func (fv *fakeVendor) Requests() []recordedRequest {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	out := make([]recordedRequest, len(fv.requests))
	copy(out, fv.requests)
	return out
}

// config returns a Config whose transport routes every call to the fake vendor.
func (fv *fakeVendor) config(t *testing.T) Config {
	t.Helper()
	target, err := url.Parse(fv.server.URL)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.Transport = rewriteTransport{target: target}
	return cfg
}

func ok(body string) fakeResponse {
	return fakeResponse{status: http.StatusOK, body: body}
}
