// Package assets moves uploaded files to remote storage and removes them
// again. Images go to the image CDN, everything else to the file bucket.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/hillview-school/school-cms/pkg/fileinfo"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/metrics"
)

// Store selects a storage backend.
type Store string

const (
	StoreImages Store = "images"
	StoreFiles  Store = "files"
)

const deleteConcurrency = 4

// File is the readable side of an uploaded part. multipart.File satisfies it.
type File interface {
	io.Reader
	io.Seeker
	io.Closer
}

// FileUpload is one file received in a request.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (File, error)
}

// Constraints bound what a single attachment accepts.
type Constraints struct {
	MaxBytes int64
	Accept   Accept
}

// Uploaded describes a stored file.
type Uploaded struct {
	URL         string
	Name        string
	Size        int64
	ContentType string
}

// Driver is a remote object store keyed by "folder/.../name.ext".
type Driver interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// DeleteReport summarises a best-effort batch delete.
type DeleteReport struct {
	Deleted int
	Failed  []string
	Err     error
}

type Transfer struct {
	drivers map[Store]Driver
	metrics *metrics.AssetMetrics
	logg    *logger.Logger
	newID   func() string
}

func NewTransfer(images, files Driver, m *metrics.AssetMetrics, logg *logger.Logger) (*Transfer, error) {
	if images == nil {
		return nil, errors.New("image store driver required")
	}
	if files == nil {
		return nil, errors.New("file store driver required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Transfer{
		drivers: map[Store]Driver{StoreImages: images, StoreFiles: files},
		metrics: m,
		logg:    logg,
		newID:   func() string { return uuid.NewString() },
	}, nil
}

// Check validates size and sniffed content type without storing anything.
func (t *Transfer) Check(file FileUpload, c Constraints) error {
	if file.Open == nil {
		return fmt.Errorf("%s could not be read", displayName(file))
	}
	if file.Size <= 0 {
		return fmt.Errorf("%s is empty", displayName(file))
	}
	if c.MaxBytes > 0 && file.Size > c.MaxBytes {
		return fmt.Errorf("%s is %s, over the %s limit",
			displayName(file), fileinfo.HumanSize(file.Size), fileinfo.HumanSize(c.MaxBytes))
	}
	if c.Accept.Any() {
		return nil
	}

	f, err := file.Open()
	if err != nil {
		return fmt.Errorf("%s could not be read", displayName(file))
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("%s could not be read", displayName(file))
	}
	if !c.Accept.Allows(detected) {
		return fmt.Errorf("%s must be %s", displayName(file), c.Accept.Description())
	}
	return nil
}

// Upload streams file to store under folder and returns where it landed.
func (t *Transfer) Upload(ctx context.Context, store Store, folder string, file FileUpload) (Uploaded, error) {
	driver, ok := t.drivers[store]
	if !ok {
		return Uploaded{}, fmt.Errorf("unknown store %q", store)
	}
	if file.Open == nil {
		return Uploaded{}, fmt.Errorf("%s could not be read", displayName(file))
	}

	f, err := file.Open()
	if err != nil {
		return Uploaded{}, fmt.Errorf("opening %s: %w", displayName(file), err)
	}
	defer f.Close()

	contentType := file.ContentType
	if detected, err := mimetype.DetectReader(f); err == nil {
		contentType = detected.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Uploaded{}, fmt.Errorf("rewinding %s: %w", displayName(file), err)
	}

	key := path.Join(folder, t.newID(), fileinfo.SanitizeFileName(file.Name))

	started := time.Now()
	url, err := driver.Upload(ctx, key, contentType, f)
	t.metrics.ObserveUpload(string(store), time.Since(started), err)
	if err != nil {
		return Uploaded{}, err
	}

	return Uploaded{
		URL:         url,
		Name:        file.Name,
		Size:        file.Size,
		ContentType: contentType,
	}, nil
}

// DeleteAll removes urls from store, concurrently and best effort. Failures
// are collected, never returned early.
func (t *Transfer) DeleteAll(ctx context.Context, store Store, urls []string) DeleteReport {
	if len(urls) == 0 {
		return DeleteReport{}
	}
	driver, ok := t.drivers[store]
	if !ok {
		return DeleteReport{Failed: urls, Err: fmt.Errorf("unknown store %q", store)}
	}

	errs := make([]error, len(urls))
	var g errgroup.Group
	g.SetLimit(deleteConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			err := driver.Delete(ctx, u)
			t.metrics.ObserveDelete(string(store), err)
			if err != nil {
				errs[i] = fmt.Errorf("deleting %s: %w", u, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := DeleteReport{}
	for i, err := range errs {
		if err != nil {
			report.Failed = append(report.Failed, urls[i])
			report.Err = multierr.Append(report.Err, err)
			t.logg.Error(t.logg.WithAsset(ctx, string(store), urls[i]), "assets.delete.failed", err)
			continue
		}
		report.Deleted++
	}
	if report.Err != nil {
		lctx := t.logg.WithFields(ctx, map[string]any{"store": store, "failed": len(report.Failed)})
		t.logg.Warn(lctx, "assets.delete.partial_failure")
	}
	return report
}

func displayName(file FileUpload) string {
	if file.Name == "" {
		return "file"
	}
	return file.Name
}

