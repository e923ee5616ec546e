// Package tempfiles materializes data URLs and remote URLs into local
// files so they can be handed to external processes as paths instead of
// oversized command-line arguments.
package tempfiles

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// maxInlineLength is the longest URL passed through as-is. Anything
// longer, and every data URL, is written to disk first.
const maxInlineLength = 2000

const filePrefix = "temp_"

// File is a materialized input. Close releases the backing temp file;
// it is a no-op for passthrough paths.
type File struct {
	Path string
	temp bool
}

func (f *File) Close() error {
	if !f.temp {
		return nil
	}
	err := os.Remove(f.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

type Store struct {
	dir    string
	client *http.Client
}

func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Materialize turns urlOrData into a local path. Data URLs are decoded to
// a temp file, http(s) URLs are downloaded, and anything else short enough
// passes through untouched as an assumed local path.
func (s *Store) Materialize(ctx context.Context, urlOrData, extension string) (*File, error) {
	switch {
	case strings.HasPrefix(urlOrData, "data:"):
		return s.writeDataURL(urlOrData, extension)
	case strings.HasPrefix(urlOrData, "http://"), strings.HasPrefix(urlOrData, "https://"):
		if len(urlOrData) <= maxInlineLength {
			return &File{Path: urlOrData}, nil
		}
		return s.download(ctx, urlOrData, extension)
	default:
		return &File{Path: urlOrData}, nil
	}
}

// Download fetches a remote URL to a temp file regardless of length.
// Used by callers whose downstream consumers only accept local paths.
func (s *Store) Download(ctx context.Context, url, extension string) (*File, error) {
	if strings.HasPrefix(url, "data:") {
		return s.writeDataURL(url, extension)
	}
	return s.download(ctx, url, extension)
}

func (s *Store) writeDataURL(dataURL, extension string) (*File, error) {
	_, encoded, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, errors.New("tempfiles: malformed data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "tempfiles: decode data URL")
	}

	path, err := s.write(raw, extension)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, temp: true}, nil
}

func (s *Store) download(ctx context.Context, url, extension string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "tempfiles: build request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tempfiles: fetch file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("tempfiles: fetch file: %s", resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "tempfiles: read body")
	}

	path, err := s.write(raw, extension)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, temp: true}, nil
}

func (s *Store) write(data []byte, extension string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "tempfiles: create dir")
	}
	if extension == "" {
		extension = "tmp"
	}
	name := fmt.Sprintf("%s%s.%s", filePrefix, uuid.NewString(), extension)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "tempfiles: write file")
	}
	return path, nil
}

// CleanupOld removes materialized files older than maxAge. Individual
// removal failures are skipped.
func (s *Store) CleanupOld(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "tempfiles: read dir")
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}
