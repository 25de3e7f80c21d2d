package mdhtml

import (
	"context"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	URL      string
	Client   *http.Client
	Writer   io.Writer
	Renderer *Renderer
	Options  []RenderOption
}

// HTTPRender fetches text over HTTP(S) and streams it through RenderStream.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.Writer == nil {
		return errors.New("http render: writer is nil")
	}
	body, err := OpenHTTP(ctx, req.Client, req.URL)
	if err != nil {
		return errors.Wrap(err, "http render")
	}
	defer body.Close()
	return RenderStream(RenderRequest{
		Reader:   body,
		Writer:   req.Writer,
		Renderer: req.Renderer,
		Options:  req.Options,
	})
}

// OpenHTTP issues a GET for an http or https URL and returns the body of a
// 2xx response. A nil client uses http.DefaultClient.
func OpenHTTP(ctx context.Context, client *http.Client, rawURL string) (io.ReadCloser, error) {
	if rawURL == "" {
		return nil, errors.New("open http: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open http: build request")
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, errors.Newf("open http: unsupported scheme %q", req.URL.Scheme)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "open http: request")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, errors.Newf("open http %s: status %s", rawURL, resp.Status)
	}
	return resp.Body, nil
}
