package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdfdesk/pdfdesk/internal/config"
	"github.com/pdfdesk/pdfdesk/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) service.System {
	t.Helper()
	return newTestClientWithTimeout(t, handler, "5s")
}

func newTestClientWithTimeout(t *testing.T, handler http.Handler, timeout string) service.System {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.ServiceConfig{
		BaseURL:       srv.URL,
		Timeout:       timeout,
		MaxUploadSize: "10MB",
		DownloadDir:   t.TempDir(),
	}
	require.NoError(t, cfg.Finalize())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.New(cfg, logger)
}

func pdfResponse(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(data)
}

func TestMergeMultipartRequest(t *testing.T) {
	var (
		gotPath     string
		gotFields   []string
		gotSortType string
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			return
		}

		for field := range r.MultipartForm.File {
			gotFields = append(gotFields, field)
		}
		gotSortType = r.FormValue("sortType")

		pdfResponse(w, []byte("%PDF-merged"))
	})

	c := newTestClient(t, handler)
	files := []service.File{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("%PDF-b")},
	}

	res, err := c.Merge(context.Background(), files, service.MergeOptions{SortType: "name"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/pdf/merge", gotPath)
	assert.ElementsMatch(t, []string{"file0", "file1"}, gotFields)
	assert.Equal(t, "name", gotSortType)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, []byte("%PDF-merged"), res.Binary)
	assert.False(t, res.IsJSON())
}

func TestSingleFileUsesPlainFieldName(t *testing.T) {
	var gotFields []string
	var gotLevel string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			return
		}
		for field := range r.MultipartForm.File {
			gotFields = append(gotFields, field)
		}
		gotLevel = r.FormValue("level")
		pdfResponse(w, []byte("%PDF-small"))
	})

	c := newTestClient(t, handler)
	file := service.File{Name: "a.pdf", Data: []byte("%PDF-a")}

	_, err := c.Compress(context.Background(), file, service.CompressOptions{Level: 3}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"file"}, gotFields)
	assert.Equal(t, "3", gotLevel)
}

func TestJSONResponseIsParsed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"pages": 12, "title": "report"}`))
	})

	c := newTestClient(t, handler)
	file := service.File{Name: "a.pdf", Data: []byte("%PDF-a")}

	res, err := c.FetchMetadata(context.Background(), file, nil)

	require.NoError(t, err)
	require.True(t, res.IsJSON())
	payload, ok := res.JSON.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(12), payload["pages"])
	assert.Equal(t, "report", payload["title"])
	assert.Nil(t, res.Binary)
}

func TestServerErrorPlainBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	})

	c := newTestClient(t, handler)

	_, err := c.Merge(context.Background(), []service.File{{Name: "a.pdf", Data: []byte("x")}}, service.MergeOptions{}, nil)

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.Status)
	assert.Equal(t, "disk full", svcErr.Message)
	assert.Empty(t, svcErr.Code)
}

func TestServerErrorJSONBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "invalid page range", "code": "bad_range"}`))
	})

	c := newTestClient(t, handler)
	file := service.File{Name: "a.pdf", Data: []byte("x")}

	_, err := c.SplitByPages(context.Background(), file, service.SplitPagesOptions{Ranges: []string{"9-1"}}, nil)

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusUnprocessableEntity, svcErr.Status)
	assert.Equal(t, "invalid page range", svcErr.Message)
	assert.Equal(t, "bad_range", svcErr.Code)
}

func TestServerErrorEmptyBodyFallsBackToStatusText(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := newTestClient(t, handler)

	_, err := c.FetchStatus(context.Background())

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.Status)
	assert.Equal(t, "Service Unavailable", svcErr.Message)
}

func TestTimeoutNormalizesToStatusZero(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	c := newTestClientWithTimeout(t, handler, "50ms")

	_, err := c.Compress(context.Background(), service.File{Name: "a.pdf", Data: []byte("x")}, service.CompressOptions{Level: 1}, nil)

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 0, svcErr.Status)
	assert.Equal(t, "request timed out", svcErr.Message)
}

func TestCancellationNormalizesToStatusZero(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	})

	c := newTestClient(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.OCR(ctx, service.File{Name: "a.pdf", Data: []byte("x")}, service.OCROptions{Languages: []string{"eng"}}, nil)

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 0, svcErr.Status)
	assert.Equal(t, "request cancelled", svcErr.Message)
}

func TestConnectionFailureNormalizesToStatusZero(t *testing.T) {
	cfg := &config.ServiceConfig{
		BaseURL:       "http://127.0.0.1:1",
		Timeout:       "1s",
		MaxUploadSize: "10MB",
		DownloadDir:   t.TempDir(),
	}
	require.NoError(t, cfg.Finalize())
	c := service.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.FetchStatus(context.Background())

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 0, svcErr.Status)
	assert.NotEmpty(t, svcErr.Message)
}

func TestUploadProgressReachesCompletion(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		pdfResponse(w, []byte("%PDF-out"))
	})

	c := newTestClient(t, handler)

	var last int
	onProgress := func(percent int) { last = percent }

	data := make([]byte, 64<<10)
	_, err := c.Compress(context.Background(), service.File{Name: "big.pdf", Data: data}, service.CompressOptions{Level: 2}, onProgress)

	require.NoError(t, err)
	assert.Equal(t, 100, last)
}

func TestUploadSizeLimitEnforcedLocally(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		pdfResponse(w, []byte("x"))
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.ServiceConfig{
		BaseURL:       srv.URL,
		Timeout:       "5s",
		MaxUploadSize: "1KB",
		DownloadDir:   t.TempDir(),
	}
	require.NoError(t, cfg.Finalize())
	c := service.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	big := service.File{Name: "big.pdf", Data: make([]byte, 4<<10)}
	_, err := c.Compress(context.Background(), big, service.CompressOptions{Level: 1}, nil)

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 0, svcErr.Status)
	assert.Equal(t, "payload_too_large", svcErr.Code)
	assert.Zero(t, requests)
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			"healthy service",
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "ok"}`))
			},
			true,
		},
		{
			"failing service",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			assert.Equal(t, tt.want, c.HealthCheck(context.Background()))
		})
	}
}

func TestDownloadWritesBinaryResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pdfResponse(w, []byte("%PDF-result"))
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.ServiceConfig{
		BaseURL:       srv.URL,
		Timeout:       "5s",
		MaxUploadSize: "10MB",
		DownloadDir:   dir,
	}
	require.NoError(t, cfg.Finalize())
	c := service.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := c.Merge(context.Background(), []service.File{{Name: "a.pdf", Data: []byte("x")}}, service.MergeOptions{}, nil)
	require.NoError(t, err)

	path, err := c.Download(res, "merged.pdf")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "merged.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-result"), data)
}

func TestDownloadRejectsNonBinaryResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	c := newTestClient(t, handler)

	res, err := c.FetchStatus(context.Background())
	require.NoError(t, err)

	_, err = c.Download(res, "status.pdf")
	require.Error(t, err)
	var svcErr *service.Error
	assert.False(t, errors.As(err, &svcErr))
}
