package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/go-resty/resty/v2"
)

type httpSource struct {
	client *resty.Client
	url    string
}

// NewHTTPSource fetches the dataset document with a GET request. A non-empty
// token is sent as a bearer credential.
func NewHTTPSource(url, token string, timeout time.Duration) (Source, error) {
	if url == "" {
		return nil, fmt.Errorf("http source requires SOURCE_URL")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json, application/yaml")
	if token != "" {
		client.SetAuthToken(token)
	}

	return &httpSource{client: client, url: url}, nil
}

func (s *httpSource) Kind() string { return KindHTTP }

func (s *httpSource) Load(ctx context.Context) (*domain.Dataset, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", s.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch dataset %s: unexpected status %s", s.url, resp.Status())
	}

	format := FormatFromName(s.url)
	if strings.Contains(strings.ToLower(resp.Header().Get("Content-Type")), "yaml") {
		format = FormatYAML
	}
	return Decode(resp.Body(), format)
}

func (s *httpSource) Close() error { return nil }
