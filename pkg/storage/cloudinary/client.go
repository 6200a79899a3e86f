// Package cloudinary stores images on Cloudinary and removes them by the
// public id embedded in their delivery URL.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/logger"
)

const resourceType = "image"

// ErrForeignURL is returned by Delete for URLs that are not Cloudinary
// delivery URLs.
var ErrForeignURL = errors.New("cloudinary: url is not a delivery url")

// Client wraps the Cloudinary upload API.
type Client struct {
	cld  *cld.Cloudinary
	root string
	logg *logger.Logger
}

func NewClient(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	var (
		conn *cld.Cloudinary
		err  error
	)
	if strings.TrimSpace(cfg.URL) != "" {
		conn, err = cld.NewFromURL(cfg.URL)
	} else {
		conn, err = cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("configuring cloudinary: %w", err)
	}

	if logg != nil {
		ctx = logg.WithField(ctx, "folder", cfg.Folder)
		logg.Info(ctx, "cloudinary client initialized")
	}

	return &Client{cld: conn, root: strings.Trim(cfg.Folder, "/"), logg: logg}, nil
}

// Upload stores an image under key (folder/name.ext) and returns the secure
// delivery URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	folder, publicID := splitKey(path.Join(c.root, key))

	res, err := c.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: resourceType,
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty secure url")
	}
	return res.SecureURL, nil
}

// Delete destroys the image behind a delivery URL. "not found" counts as
// deleted.
func (c *Client) Delete(ctx context.Context, fileURL string) error {
	publicID, ok := PublicIDFromURL(fileURL)
	if !ok {
		return ErrForeignURL
	}

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
}

func splitKey(key string) (folder, publicID string) {
	dir, file := path.Split(key)
	return strings.Trim(dir, "/"), strings.TrimSuffix(file, path.Ext(file))
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL extracts the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/school/news/a.jpg,
// which yields school/news/a.
func PublicIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", false
	}
	_, rest, found := strings.Cut(u.Path, "/upload/")
	if !found {
		return "", false
	}

	segments := strings.Split(strings.Trim(rest, "/"), "/")
	for i, s := range segments {
		if versionSegment.MatchString(s) {
			segments = segments[i+1:]
			break
		}
	}
	id := strings.Join(segments, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}
