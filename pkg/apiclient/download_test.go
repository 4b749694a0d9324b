package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionlab/authkit/pkg/apiclient"
)

func newFileServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4 file content"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDownload_SavesToDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newFileServer(t)
	dir := t.TempDir()

	client, _ := newTestClient(t, server.URL, apiclient.WithSaver(&apiclient.DirSaver{Dir: dir}))

	dl, err := client.Download(ctx, "/files/1")
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", dl.Filename)
	assert.Equal(t, "application/pdf", dl.MimeType)
	assert.Equal(t, []byte("%PDF-1.4 file content"), dl.Blob.Content)
	assert.Equal(t, filepath.Join(dir, "report.pdf"), dl.SavedTo)

	saved, err := os.ReadFile(dl.SavedTo)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 file content", string(saved))
}

func TestDownload_WithoutAutoSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newFileServer(t)
	dir := t.TempDir()

	client, _ := newTestClient(t, server.URL, apiclient.WithSaver(&apiclient.DirSaver{Dir: dir}))

	dl, err := client.Download(ctx, "/files/1", apiclient.WithoutAutoSave())
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", dl.Filename)
	assert.NotEmpty(t, dl.Blob.Content)
	assert.Empty(t, dl.SavedTo)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written when auto-save is off")
}

func TestDownload_CallerOverridesWin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x1, 0x2})
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(t, server.URL,
		apiclient.WithSaver(&apiclient.DirSaver{Dir: t.TempDir()}))

	dl, err := client.Download(ctx, "/export",
		apiclient.WithMimeType("text/csv"),
		apiclient.WithFilename("data.csv"),
	)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", gotAccept)
	assert.Equal(t, "text/csv", dl.MimeType)
	assert.Equal(t, "data.csv", dl.Filename)
}

func TestDownload_FallbackFilename(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(t, server.URL,
		apiclient.WithSaver(&apiclient.DirSaver{Dir: t.TempDir()}))

	dl, err := client.Download(ctx, "/export")
	require.NoError(t, err)
	assert.Equal(t, apiclient.DefaultFilename, dl.Filename)
}

func TestDownload_BinaryBodySkipsJSONDecoding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A JSON content type with a non-JSON body must not fail a binary call.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("not json at all"))
	}))
	t.Cleanup(server.Close)

	client, _ := newTestClient(t, server.URL,
		apiclient.WithSaver(&apiclient.DirSaver{Dir: t.TempDir()}))

	dl, err := client.Download(ctx, "/export", apiclient.WithoutAutoSave())
	require.NoError(t, err)
	assert.Equal(t, []byte("not json at all"), dl.Blob.Content)
}

func TestDownload_RequestFailurePropagates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := serveError(t, http.StatusNotFound, `{"type":"SERVER","code":"NOT_FOUND","message":"no such file"}`)
	client, _ := newTestClient(t, server.URL)

	_, err := client.Download(ctx, "/files/missing",
		apiclient.WithCallOptions(apiclient.WithManualErrors()))
	require.Error(t, err)

	info, ok := apiclient.AsErrorInfo(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", info.Code)
}

func TestDirSaver_StripsHostilePaths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	saver := &apiclient.DirSaver{Dir: dir}

	saved, err := saver.Save(ctx, "../../etc/passwd", apiclient.Blob{Content: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwd"), saved)
}

func TestDownload_SaveFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newFileServer(t)
	client, _ := newTestClient(t, server.URL, apiclient.WithSaver(failingSaver{}))

	_, err := client.Download(ctx, "/files/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrSaveFailed)
}

type failingSaver struct{}

func (failingSaver) Save(context.Context, string, apiclient.Blob) (string, error) {
	return "", errors.New("disk full")
}
