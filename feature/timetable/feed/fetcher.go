package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/clbanning/mxj/v2"
)

// ErrMalformedFeed signals that the upstream response is missing the
// expected envelope. The caller skips the cycle, it is not fatal.
var ErrMalformedFeed = errors.New("feed: missing conversation envelope")

// envelopeKey is the top-level element wrapping the seven feed tables.
const envelopeKey = "conversation"

// Fetcher retrieves the raw schedule feed over HTTP and parses it into a
// generic key/value tree. It has no domain knowledge beyond the envelope.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher creates a fetcher for the given feed URL.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{url: url, client: http.DefaultClient}
}

// Fetch issues one GET to the feed URL and parses the XML body.
// It returns the generic tree under the envelope plus the raw document
// bytes for archiving.
func (f *Fetcher) Fetch(ctx context.Context) (map[string]any, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("feed: build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("feed: fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("feed: unexpected status %d from %s", resp.StatusCode, f.url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("feed: read body: %w", err)
	}

	tree, err := Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	return tree, raw, nil
}

// Parse turns an XML document into the generic tree under the envelope.
// Numeric values are cast, attributes are ignored by the feed format.
func Parse(raw []byte) (map[string]any, error) {
	m, err := mxj.NewMapXml(raw, true)
	if err != nil {
		return nil, fmt.Errorf("feed: parse xml: %w", err)
	}

	envelope, ok := map[string]any(m)[envelopeKey].(map[string]any)
	if !ok {
		return nil, ErrMalformedFeed
	}
	return envelope, nil
}
