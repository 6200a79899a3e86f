package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hillview-school/school-cms/pkg/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func upload(name string, body []byte) FileUpload {
	return FileUpload{
		Name: name,
		Size: int64(len(body)),
		Open: func() (File, error) { return memFile{bytes.NewReader(body)}, nil },
	}
}

type fakeDriver struct {
	mu      sync.Mutex
	prefix  string
	keys    []string
	bodies  []string
	types   []string
	deleted []string
	failOn  map[string]error
}

func (d *fakeDriver) Upload(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failOn[key]; err != nil {
		return "", err
	}
	b, _ := io.ReadAll(body)
	d.keys = append(d.keys, key)
	d.bodies = append(d.bodies, string(b))
	d.types = append(d.types, contentType)
	return d.prefix + key, nil
}

func (d *fakeDriver) Delete(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failOn[url]; err != nil {
		return err
	}
	d.deleted = append(d.deleted, url)
	return nil
}

func newTestTransfer(t *testing.T) (*Transfer, *fakeDriver, *fakeDriver) {
	t.Helper()
	images := &fakeDriver{prefix: "https://img.test/"}
	files := &fakeDriver{prefix: "https://files.test/"}
	tr, err := NewTransfer(images, files, nil, logger.Nop())
	require.NoError(t, err)
	tr.newID = func() string { return "id1" }
	return tr, images, files
}

func TestNewTransferRequiresDrivers(t *testing.T) {
	_, err := NewTransfer(nil, &fakeDriver{}, nil, logger.Nop())
	require.Error(t, err)
	_, err = NewTransfer(&fakeDriver{}, nil, nil, logger.Nop())
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	tr, _, _ := newTestTransfer(t)
	imagesOnly := Constraints{MaxBytes: 1024, Accept: AcceptOf(MimeImages)}

	require.NoError(t, tr.Check(upload("logo.png", pngHeader), imagesOnly))

	err := tr.Check(upload("notes.txt", []byte("hello world")), imagesOnly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.txt must be images")

	err = tr.Check(upload("big.png", bytes.Repeat([]byte{1}, 2048)), imagesOnly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "over the 1.0 kB limit")

	err = tr.Check(upload("empty.png", nil), imagesOnly)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	require.NoError(t, tr.Check(upload("any.bin", []byte{0, 1, 2}), Constraints{}))
}

func TestCheckRejectsHTMLAsText(t *testing.T) {
	tr, _, _ := newTestTransfer(t)
	docs := Constraints{Accept: AcceptOf(MimeDocuments)}

	require.NoError(t, tr.Check(upload("notes.txt", []byte("plain notes for class")), docs))

	err := tr.Check(upload("page.txt", []byte("<html><body><script>x()</script></body></html>")), docs)
	require.Error(t, err)
}

func TestUploadRoutesByStoreAndSniffsType(t *testing.T) {
	tr, images, files := newTestTransfer(t)
	ctx := context.Background()

	got, err := tr.Upload(ctx, StoreImages, "school/news", upload("Cover Photo.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/school/news/id1/Cover-Photo.png", got.URL)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, "Cover Photo.png", got.Name)
	assert.Equal(t, string(pngHeader), images.bodies[0], "body must be rewound after sniffing")

	got, err = tr.Upload(ctx, StoreFiles, "resources", upload("notes.pdf", []byte("%PDF-1.4\n%âãÏÓ\n")))
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/resources/id1/notes.pdf", got.URL)
	assert.Equal(t, "application/pdf", files.types[0])

	_, err = tr.Upload(ctx, Store("video"), "x", upload("a.mp4", []byte("x")))
	require.Error(t, err)
}

func TestDeleteAllCollectsFailures(t *testing.T) {
	tr, _, files := newTestTransfer(t)
	files.failOn = map[string]error{"https://files.test/b": errors.New("permission denied")}

	report := tr.DeleteAll(context.Background(), StoreFiles, []string{
		"https://files.test/a",
		"https://files.test/b",
		"https://files.test/c",
	})

	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, []string{"https://files.test/b"}, report.Failed)
	require.Error(t, report.Err)
	assert.True(t, strings.Contains(report.Err.Error(), "permission denied"))
	assert.ElementsMatch(t, []string{"https://files.test/a", "https://files.test/c"}, files.deleted)
}

func TestDeleteAllEmpty(t *testing.T) {
	tr, _, _ := newTestTransfer(t)
	report := tr.DeleteAll(context.Background(), StoreImages, nil)
	assert.Equal(t, DeleteReport{}, report)
}

func TestAcceptDescription(t *testing.T) {
	assert.Equal(t, "images", AcceptOf(MimeImages).Description())
	assert.Equal(t, "PDFs or office documents", AcceptOf(MimePDFs, MimeDocuments).Description())
	assert.Equal(t, "images, PDFs, or zip archives", AcceptOf(MimeImages, MimePDFs, MimeArchives).Description())
	assert.True(t, AcceptOf().Any())
}
