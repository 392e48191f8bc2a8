package httpclient

import (
	"maps"
	"net/http"
	"time"

	"github.com/slidecraft/slidecraft/pkg/useragent"
)

type HTTPOptions struct {
	Header    http.Header
	Timeout   time.Duration
	Transport http.RoundTripper
}

type Opt func(*HTTPOptions)

// NewHTTPClient returns a client that stamps every request with the
// SlideCraft User-Agent and any configured headers.
func NewHTTPClient(opts ...Opt) *http.Client {
	httpOptions := HTTPOptions{
		Header: make(http.Header),
	}
	for _, opt := range opts {
		opt(&httpOptions)
	}

	rt := httpOptions.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	return &http.Client{
		Timeout: httpOptions.Timeout,
		Transport: &headerTransport{
			header: httpOptions.Header,
			rt:     rt,
		},
	}
}

func WithHeader(key, value string) Opt {
	return func(o *HTTPOptions) {
		o.Header.Set(key, value)
	}
}

// WithTimeout bounds a whole request, including reading the body.
// Zero means no limit.
func WithTimeout(d time.Duration) Opt {
	return func(o *HTTPOptions) {
		o.Timeout = d
	}
}

func WithTransport(rt http.RoundTripper) Opt {
	return func(o *HTTPOptions) {
		o.Transport = rt
	}
}

type headerTransport struct {
	header http.Header
	rt     http.RoundTripper
}

func (h *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r2 := req.Clone(req.Context())
	r2.Header.Set("User-Agent", useragent.Header)
	maps.Copy(r2.Header, h.header)
	return h.rt.RoundTrip(r2)
}
