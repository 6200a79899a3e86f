// Package contenttest runs a content service against an in-memory SQLite
// database and in-memory stores, for the entity packages' tests.
package contenttest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/config"
	"github.com/hillview-school/school-cms/pkg/logger"
)

// Store keeps uploaded objects in memory, keyed by URL.
type Store struct {
	mu      sync.Mutex
	base    string
	objects map[string][]byte
}

func NewStore(base string) *Store {
	return &Store{base: base, objects: map[string][]byte{}}
}

func (s *Store) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := s.base + "/" + key
	s.objects[url] = data
	return url, nil
}

func (s *Store) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[url]; !ok {
		return fmt.Errorf("object %s not found", url)
	}
	delete(s.objects, url)
	return nil
}

// Len is the number of stored objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Env is a content service with everything behind it exposed.
type Env[T any] struct {
	Service content.Service[T]
	DB      *gorm.DB
	Images  *Store
	Files   *Store
}

// New migrates T into a fresh database named after the test and builds a
// service for schema on top of it.
func New[T any](t *testing.T, schema content.Schema[T]) *Env[T] {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(new(T)))

	env := &Env[T]{
		DB:     conn,
		Images: NewStore("https://res.cloudinary.test/hillview/image/upload"),
		Files:  NewStore("https://storage.googleapis.test/school-assets"),
	}
	transfer, err := assets.NewTransfer(env.Images, env.Files, nil, logger.Nop())
	require.NoError(t, err)
	env.Service, err = content.NewService(schema, content.NewRepository[T](conn), transfer, config.UploadsConfig{}, logger.Nop())
	require.NoError(t, err)
	return env
}

// Count is the number of T rows in the database.
func (e *Env[T]) Count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.DB.Model(new(T)).Count(&n).Error)
	return n
}

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

// Upload is a submitted file holding data.
func Upload(name string, data []byte) assets.FileUpload {
	return assets.FileUpload{
		Name: name,
		Size: int64(len(data)),
		Open: func() (assets.File, error) { return memFile{bytes.NewReader(data)}, nil },
	}
}

// PDF is a minimal document that sniffs as application/pdf.
var PDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// PNG is a 1x1 image.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}
