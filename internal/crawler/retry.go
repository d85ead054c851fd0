package crawler

import (
	"net/http"
	"time"
)

// Transport retry settings. Three attempts with a doubling backoff keeps
// a transient failure cheap (3 seconds worst case) without masking a
// persistently broken URL, which the crawl-layer retry ceiling handles
// across runs.
const (
	retryAttempts    = 3
	retryBaseBackoff = 1 * time.Second
)

// retryableStatus contains the status codes worth a second attempt:
// rate limiting and transient server-side failures. Client errors such
// as 404 are final and classified by the processor instead.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
}

// retryTransport wraps an http.RoundTripper and retries idempotent GET
// requests on connection errors and retryable status codes. Non-GET
// requests pass through untouched.
type retryTransport struct {
	next http.RoundTripper
}

func newRetryTransport(next http.RoundTripper) *retryTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &retryTransport{next: next}
}

// RoundTrip implements http.RoundTripper. On retry the previous response
// body is drained and closed so the underlying connection can be reused.
// The last response or error, whichever the final attempt produced, is
// returned for the processor to classify.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}

	var resp *http.Response
	var err error
	backoff := retryBaseBackoff

	for attempt := 1; attempt <= retryAttempts; attempt++ {
		resp, err = t.next.RoundTrip(req)
		if err == nil && !retryableStatus[resp.StatusCode] {
			return resp, nil
		}

		if attempt == retryAttempts {
			break
		}

		if resp != nil {
			_ = resp.Body.Close()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return resp, err
}
