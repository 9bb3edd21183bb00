package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"actionizer/pkg/httputil"
)

var errNotImage = errors.New("poster is not an image")

type Writer struct {
	rootDir string
	http    *httputil.RetryClient
}

func NewWriter(rootDir string, client *httputil.RetryClient) *Writer {
	if client == nil {
		client = httputil.NewRetryClient(nil, httputil.DefaultRetryConfig())
	}
	return &Writer{
		rootDir: rootDir,
		http:    client,
	}
}

func (w *Writer) RootDir() string {
	return w.rootDir
}

// Write creates <root>/<dir>, downloads the poster into it and writes the
// README. Directory creation is idempotent. Nothing is cleaned up on failure.
func (w *Writer) Write(ctx context.Context, b Bundle) (*Result, error) {
	dir := filepath.Join(w.rootDir, b.DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}

	poster, err := w.loadPoster(ctx, b.PosterRef)
	if err != nil {
		return nil, fmt.Errorf("download poster: %w", err)
	}

	result := &Result{
		Dir:        dir,
		PosterPath: filepath.Join(dir, b.DirName+posterSuffix),
		ReadmePath: filepath.Join(dir, readmeName),
	}

	if err := os.WriteFile(result.PosterPath, poster, 0644); err != nil {
		return nil, &FilesystemError{Op: "write", Path: result.PosterPath, Err: err}
	}
	slog.Debug("Poster saved", "path", result.PosterPath, "bytes", len(poster))

	if err := os.WriteFile(result.ReadmePath, []byte(Readme(b)), 0644); err != nil {
		return nil, &FilesystemError{Op: "write", Path: result.ReadmePath, Err: err}
	}

	return result, nil
}

func (w *Writer) loadPoster(ctx context.Context, ref string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, "data:") {
		data, err = decodeDataURL(ref)
	} else {
		data, err = w.http.Fetch(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("%w: detected %q", errNotImage, kind.MIME.Value)
	}
	return data, nil
}

func decodeDataURL(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data url encoding %q", header)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return data, nil
}
