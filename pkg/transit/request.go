package transit

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	acceptJSON   = "application/json"
	acceptNDJSON = "application/x-ndjson"
)

// Do issues a buffered GET for path and returns the normalized body.
// params are validated and flattened before anything is sent.
func (c *Client) Do(ctx context.Context, path string, params Params, shape Shape) (Normalized, error) {
	query, identifier, err := c.builder.Build(params)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, path, query, identifier, shape)
}

// Stream issues a GET for path and returns the newline delimited JSON
// records of the response as they arrive. The caller must drain or Close
// the stream.
func (c *Client) Stream(ctx context.Context, path string, params Params, shape Shape) (*Stream, error) {
	query, identifier, err := c.builder.Build(params)
	if err != nil {
		return nil, err
	}
	return c.executeStream(ctx, path, query, identifier, shape)
}

func (c *Client) execute(ctx context.Context, path string, query Query, identifier string, shape Shape) (Normalized, error) {
	resp, reqURL, err := c.send(ctx, path, query, identifier, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}

	return c.normalizer.Normalize(body, shape)
}

func (c *Client) executeStream(ctx context.Context, path string, query Query, identifier string, shape Shape) (*Stream, error) {
	resp, reqURL, err := c.send(ctx, path, query, identifier, acceptNDJSON)
	if err != nil {
		return nil, err
	}
	return newStream(resp.Body, reqURL, shape, c.normalizer, c.logger), nil
}

// send performs the GET and turns non-2xx responses into UpstreamErrors.
// On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, path string, query Query, identifier, accept string) (*http.Response, string, error) {
	reqURL := c.url(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, reqURL, invalidArg("path", "%v", err)
	}
	c.setHeaders(req, identifier, accept)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("transit request failed",
			"method", req.Method,
			"path", path,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, reqURL, &TransportError{URL: reqURL, Err: err}
	}

	c.logger.Debug("transit request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, reqURL, newUpstreamError(resp.StatusCode, resp.Status, reqURL, resp.Header.Get("Content-Type"), resp.Body)
	}
	return resp, reqURL, nil
}

// url joins the endpoint with an already escaped path and the query.
func (c *Client) url(path string, query Query) string {
	reqURL := c.endpoint.String() + "/" + strings.TrimLeft(path, "/")
	if query.Len() > 0 {
		reqURL += "?" + query.Encode()
	}
	return reqURL
}

func (c *Client) setHeaders(req *http.Request, identifier, accept string) {
	for key, values := range c.headers {
		switch http.CanonicalHeaderKey(key) {
		case "User-Agent":
			if !c.overrideUserAgent {
				c.logger.Debug("ignoring caller supplied User-Agent", "value", strings.Join(values, ", "))
				continue
			}
		case "X-Identifier":
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", accept)

	if identifier == "" {
		identifier = c.identifier
	}
	if identifier != "" {
		req.Header.Set("X-Identifier", identifier)
	}
}
