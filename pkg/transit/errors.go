package transit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrInvalidArgument is matched by every validation error, so callers can
// test for the whole class with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports malformed or missing caller input. It is
// always returned before any request is sent.
type InvalidArgumentError struct {
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArg(param, format string, args ...any) error {
	return &InvalidArgumentError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// InvalidLocationError reports a Location parameter that is none of
// Station, Address or POI, or one whose fields are unusable.
type InvalidLocationError struct {
	Param  string
	Reason string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location %q: %s", e.Param, e.Reason)
}

func (e *InvalidLocationError) Is(target error) bool { return target == ErrInvalidArgument }

// UpstreamError is returned for any non-2xx response.
type UpstreamError struct {
	StatusCode int
	Status     string
	URL        string
	// Body holds the parsed error document when the response was JSON.
	Body map[string]any
	// Message is the human readable part of the body, if there was one.
	Message string
}

func (e *UpstreamError) Error() string {
	desc := e.Status
	if desc == "" {
		desc = fmt.Sprintf("status %d", e.StatusCode)
	}
	if e.Message != "" {
		return fmt.Sprintf("upstream error %d: %s: %s", e.StatusCode, desc, e.Message)
	}
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, desc)
}

// TransportError wraps network level failures (DNS, resets, cancellation).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response document that could not be parsed or
// normalized.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to decode response: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode response at %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// newUpstreamError builds an UpstreamError from a failed response body.
func newUpstreamError(statusCode int, status, reqURL, contentType string, body io.Reader) *UpstreamError {
	e := &UpstreamError{
		StatusCode: statusCode,
		Status:     strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprint(statusCode))),
		URL:        reqURL,
	}

	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return e
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err == nil {
			e.Body = doc
			for _, key := range []string{"msg", "message", "error"} {
				if s, ok := doc[key].(string); ok && s != "" {
					e.Message = s
					break
				}
			}
		}
	case mediaType == "text/html":
		e.Message = htmlErrorMessage(data)
	}
	return e
}

// htmlErrorMessage pulls the heading out of a proxy or gateway error page.
func htmlErrorMessage(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"h1", "title"} {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
