package backend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBody caps how much of a backend response is buffered. Generated
// images are the largest bodies seen.
var maxResponseBody int64 = 32 << 20

var errBodyTooLarge = errors.New("response body exceeds size limit")

type exchange struct {
	statusCode  int
	contentType string
	body        []byte
}

func (e *exchange) failed() bool {
	return e.statusCode < 200 || e.statusCode >= 300
}

// recordingTransport buffers the body of the response it carries and keeps its
// status, content type, and bytes. A new one is created for every call.
type recordingTransport struct {
	base     http.RoundTripper
	recorded *exchange
}

func newRecordingTransport(base http.RoundTripper) *recordingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &recordingTransport{base: base}
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody+1))
	_ = res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxResponseBody {
		t.recorded = &exchange{
			statusCode:  res.StatusCode,
			contentType: res.Header.Get("Content-Type"),
		}
		return nil, fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, maxResponseBody)
	}

	t.recorded = &exchange{
		statusCode:  res.StatusCode,
		contentType: res.Header.Get("Content-Type"),
		body:        body,
	}

	res.Body = io.NopCloser(bytes.NewReader(body))
	res.ContentLength = int64(len(body))

	return res, nil
}
