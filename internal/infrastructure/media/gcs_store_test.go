package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeGCS counts uploads whose body arrived in full.
func fakeGCS(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var committed atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			return
		}
		committed.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"bucket":"avatars","name":"todoApp/a.jpg"}`)
	}))
	return srv, &committed
}

func newFakeGCSStore(t *testing.T, srv *httptest.Server) *GCSStore {
	t.Helper()
	client, err := storage.NewClient(context.Background(),
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewGCSStore(client, "avatars")
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestGCSPutCommitsCompleteObject(t *testing.T) {
	srv, committed := fakeGCS(t)
	store := newFakeGCSStore(t, srv)

	url, err := store.Put(context.Background(), "todoApp/a.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/avatars/todoApp/a.jpg", url)

	srv.Close()
	assert.EqualValues(t, 1, committed.Load())
}

func TestGCSPutAbortsOnReadError(t *testing.T) {
	srv, committed := fakeGCS(t)
	store := newFakeGCSStore(t, srv)
	boom := errors.New("disk read failed")

	_, err := store.Put(context.Background(), "todoApp/a.jpg", "image/jpeg",
		io.MultiReader(strings.NewReader("partial"), failingReader{boom}))
	assert.ErrorIs(t, err, boom)

	// Close waits for in-flight handlers
	srv.Close()
	assert.Zero(t, committed.Load(), "a partial object must not be committed")
}

func TestGCSPutNotConfigured(t *testing.T) {
	_, err := NewGCSStore(nil, "avatars").Put(context.Background(), "k", "image/jpeg", strings.NewReader("x"))
	assert.Error(t, err)
}
