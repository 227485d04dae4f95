package s3_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/strength-api/internal/storage/s3"
)

// fakeBucket serves path-style GET/PUT for a single bucket.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/exports-bucket/")
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[key] = b
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		b, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code></Error>`)
			return
		}
		_, _ = w.Write(b)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newClient(t *testing.T) (*s3.S3Client, *fakeBucket) {
	t.Helper()
	fb := &fakeBucket{objects: map[string][]byte{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	t.Setenv("AWS_BUCKET", "exports-bucket")
	t.Setenv("AWS_ENDPOINT", srv.URL)
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_PATH_STYLE", "true")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	c, err := s3.FromEnv(t.Context())
	require.NoError(t, err)
	return c, fb
}

func TestFromEnv_NotConfigured(t *testing.T) {
	t.Setenv("AWS_BUCKET", "")
	_, err := s3.FromEnv(t.Context())
	assert.ErrorIs(t, err, s3.ErrNotConfigured)
}

func TestFetchObject(t *testing.T) {
	c, fb := newClient(t)
	fb.objects["lists/extra.txt"] = []byte("hunter2\ntrustno1\n")

	b, err := c.FetchObject(t.Context(), "lists/extra.txt")
	require.NoError(t, err)
	assert.Equal(t, "hunter2\ntrustno1\n", string(b))

	_, err = c.FetchObject(t.Context(), "missing")
	assert.Error(t, err)
}

func TestPutJSON(t *testing.T) {
	c, fb := newClient(t)
	require.NoError(t, c.PutJSON(t.Context(), "exports/s1.json", map[string]int{"score": 42}))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	assert.Contains(t, string(fb.objects["exports/s1.json"]), `{"score":42}`)
}

func TestPresignGet(t *testing.T) {
	c, _ := newClient(t)
	u, err := c.PresignGet(t.Context(), "exports/s1.json")
	require.NoError(t, err)
	assert.Contains(t, u, "/exports-bucket/exports/s1.json")
	assert.Contains(t, u, "X-Amz-Signature=")
}
