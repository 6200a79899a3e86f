package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/logger"
)

const (
	defaultBaseURL = "https://storage.googleapis.com"
	pingTimeout    = 5 * time.Second
)

// ErrForeignURL is returned by Delete for URLs outside the configured bucket
// host, which are left alone.
var ErrForeignURL = errors.New("gcs: url does not belong to bucket host")

// Client uploads and removes publicly readable objects through the JSON API.
type Client struct {
	httpClient  *http.Client
	bucket      string
	publicBase  string
	apiBase     string
	tokenSource *tokenSource
	urlPattern  *regexp.Regexp
	logg        *logger.Logger
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}

	var ts *tokenSource
	var err error
	switch {
	case cfg.Anonymous:
		ts = nil
	case gcp.CredentialsJSON != "":
		ts, err = newServiceAccountTokenSource(httpClient, gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		bytes, readErr := os.ReadFile(gcp.ApplicationCredentials)
		if readErr != nil {
			return nil, fmt.Errorf("reading credentials file: %w", readErr)
		}
		ts, err = newServiceAccountTokenSource(httpClient, string(bytes))
	default:
		ts = newMetadataTokenSource(httpClient)
	}
	if err != nil {
		return nil, err
	}

	client := newClient(httpClient, cfg, ts, logg)

	if logg != nil {
		ctx = logg.WithField(ctx, "bucket", cfg.BucketName)
		logg.Info(ctx, "gcs client initialized")
	}

	return client, nil
}

func newClient(httpClient *http.Client, cfg config.GCSConfig, ts *tokenSource, logg *logger.Logger) *Client {
	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = defaultBaseURL
	}
	apiBase := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBase == "" {
		apiBase = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		bucket:      cfg.BucketName,
		publicBase:  publicBase,
		apiBase:     apiBase,
		tokenSource: ts,
		urlPattern:  regexp.MustCompile("^" + regexp.QuoteMeta(publicBase) + `/([^/]+)/(.+)$`),
		logg:        logg,
	}
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// PublicURL is the address clients use to download key.
func (c *Client) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.publicBase + "/" + c.bucket + "/" + strings.Join(segments, "/")
}

// KeyFromURL recovers bucket and object key from a public URL.
func (c *Client) KeyFromURL(rawURL string) (bucket, key string, ok bool) {
	clean := strings.TrimSpace(rawURL)
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	m := c.urlPattern.FindStringSubmatch(clean)
	if m == nil {
		return "", "", false
	}
	decoded, err := url.PathUnescape(m[2])
	if err != nil {
		decoded = m[2]
	}
	return m[1], decoded, true
}

// Upload stores body under key and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("gcs: object key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	endpoint := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		c.apiBase, url.PathEscape(c.bucket), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if err := c.authorize(ctx, req); err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "gcs: closing upload response failed") }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("gcs upload", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return c.PublicURL(key), nil
}

// Delete removes the object behind a public URL. Missing objects count as
// deleted.
func (c *Client) Delete(ctx context.Context, fileURL string) error {
	bucket, key, ok := c.KeyFromURL(fileURL)
	if !ok {
		return ErrForeignURL
	}

	endpoint := fmt.Sprintf("%s/storage/v1/b/%s/o/%s",
		c.apiBase, url.PathEscape(bucket), url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gcs delete: %w", err)
	}
	defer func() { closeBody(ctx, c.logg, resp.Body, "gcs: closing delete response failed") }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return statusError("gcs delete", resp)
	}
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("gcs client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check", resp)
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokenSource == nil {
		return nil
	}
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return fmt.Errorf("gcs token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s failed: %s: %s", op, resp.Status, msg)
	}
	return fmt.Errorf("%s failed: %s", op, resp.Status)
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}
