package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultFilename names a download when neither the caller nor the response
// supplies one.
const DefaultFilename = "download"

// Download is the result of a file retrieval.
type Download struct {
	Blob     Blob
	Filename string
	MimeType string

	// SavedTo is the local path written by auto-save, empty when disabled
	SavedTo string
}

// Saver persists a downloaded blob, returning the location written.
type Saver interface {
	Save(ctx context.Context, filename string, blob Blob) (string, error)
}

// DirSaver writes blobs into a directory, creating it on demand.
type DirSaver struct {
	Dir string
}

func (s *DirSaver) Save(ctx context.Context, filename string, blob Blob) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	// Strip any path components a hostile header may have smuggled in
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, blob.Content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type downloadOptions struct {
	mimeType string
	filename string
	noSave   bool
	call     []CallOption
}

// DownloadOption adjusts a single download.
type DownloadOption func(*downloadOptions)

// WithMimeType requests a specific MIME type and tags the blob with it.
func WithMimeType(mimeType string) DownloadOption {
	return func(o *downloadOptions) { o.mimeType = mimeType }
}

// WithFilename overrides filename resolution entirely.
func WithFilename(filename string) DownloadOption {
	return func(o *downloadOptions) { o.filename = filename }
}

// WithoutAutoSave skips writing the blob out; the caller handles the bytes.
func WithoutAutoSave() DownloadOption {
	return func(o *downloadOptions) { o.noSave = true }
}

// WithCallOptions forwards per-call options to the underlying request.
func WithCallOptions(opts ...CallOption) DownloadOption {
	return func(o *downloadOptions) { o.call = append(o.call, opts...) }
}

// Download retrieves a file through the full pipeline. The MIME type comes
// from the option or the response's Content-Type; the filename from the
// option, the Content-Disposition header, or DefaultFilename. The resolved
// triple is returned whether or not auto-save ran. Failures propagate
// through the same failure phase as any other request.
func (c *Client) Download(ctx context.Context, path string, opts ...DownloadOption) (*Download, error) {
	var o downloadOptions
	for _, opt := range opts {
		opt(&o)
	}

	accept := o.mimeType
	if accept == "" {
		accept = "*/*"
	}

	call := append([]CallOption{WithBinary(), WithAccept(accept)}, o.call...)

	resp, err := c.Do(ctx, http.MethodGet, path, nil, call...)
	if err != nil {
		return nil, err
	}

	mimeType := o.mimeType
	if mimeType == "" {
		mimeType = resp.Header.Get("Content-Type")
	}

	filename := o.filename
	if filename == "" {
		filename = ExtractFilename(resp.Header.Get("Content-Disposition"))
	}
	if filename == "" {
		filename = DefaultFilename
	}

	result := &Download{
		Blob:     ToBlob(resp.Body, mimeType),
		Filename: filename,
		MimeType: mimeType,
	}

	if !o.noSave && c.saver != nil {
		saved, err := c.saver.Save(ctx, filename, result.Blob)
		if err != nil {
			return nil, errors.Join(ErrSaveFailed, fmt.Errorf("save %q: %w", filename, err))
		}
		result.SavedTo = saved
	}

	return result, nil
}
