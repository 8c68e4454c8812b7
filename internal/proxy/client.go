package proxy

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// hop-by-hop headers are meaningful only for the single connection and must
// not be forwarded either way.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Client forwards dashboard requests to the API server and hands back the
// upstream response verbatim.
type Client struct {
	base *url.URL
	http *http.Client
}

// Upstream is one forwarded response: status, headers and raw body exactly
// as the API server produced them.
type Upstream struct {
	Status int
	Header http.Header
	Body   []byte
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Forward replays the request against the upstream. Any transport-level
// failure (refused connection, DNS, timeout) comes back as an error; an HTTP
// error status from the upstream is NOT an error here, it is mirrored.
func (c *Client) Forward(ctx context.Context, method, path, rawQuery string, header http.Header, body io.Reader) (*Upstream, error) {
	target := *c.base
	target.Path = singleJoin(c.base.Path, path)
	target.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	copyHeader(req.Header, header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &Upstream{
		Status: resp.StatusCode,
		Header: make(http.Header, len(resp.Header)),
		Body:   data,
	}
	copyHeader(out.Header, resp.Header)
	return out, nil
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		if isHopHeader(k) {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

func singleJoin(a, b string) string {
	switch {
	case strings.HasSuffix(a, "/") && strings.HasPrefix(b, "/"):
		return a + b[1:]
	case !strings.HasSuffix(a, "/") && !strings.HasPrefix(b, "/"):
		return a + "/" + b
	}
	return a + b
}
