package operations_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/pdfdesk/pdfdesk/internal/config"
	"github.com/pdfdesk/pdfdesk/internal/document"
	"github.com/pdfdesk/pdfdesk/internal/operations"
	"github.com/pdfdesk/pdfdesk/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures notifications for assertion.
type recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

type fixture struct {
	ops      *operations.Facade
	store    *document.Store
	notifier *recorder
	dir      string
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	svcCfg := &config.ServiceConfig{
		BaseURL:       srv.URL,
		Timeout:       "5s",
		MaxUploadSize: "10MB",
		DownloadDir:   dir,
	}
	require.NoError(t, svcCfg.Finalize())

	sessCfg := &config.SessionConfig{RecentFilesLimit: 10, DefaultZoom: 1.0}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := document.NewStore(sessCfg, logger)
	svc := service.New(svcCfg, logger)
	notifier := &recorder{}

	return &fixture{
		ops:      operations.New(svc, store, sessCfg, notifier, logger),
		store:    store,
		notifier: notifier,
		dir:      dir,
	}
}

func testFiles() []service.File {
	return []service.File{
		{Name: "a.pdf", Data: []byte("%PDF-a")},
		{Name: "b.pdf", Data: []byte("%PDF-b")},
	}
}

func TestMergeSuccess(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-merged"))
	})

	f := newFixture(t, handler)

	res := f.ops.Merge(context.Background(), testFiles(), service.MergeOptions{SortType: "name"})

	require.NotNil(t, res)
	assert.Equal(t, []byte("%PDF-merged"), res.Binary)

	state := f.ops.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
	assert.Equal(t, 100, state.Progress)

	assert.Equal(t, []string{"Documents merged"}, f.notifier.successes)
	assert.Empty(t, f.notifier.errors)
}

func TestMergeFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	})

	f := newFixture(t, handler)

	res := f.ops.Merge(context.Background(), testFiles(), service.MergeOptions{})

	assert.Nil(t, res)

	state := f.ops.State()
	assert.False(t, state.Loading)
	assert.Equal(t, "disk full", state.Err)

	assert.Equal(t, []string{"disk full"}, f.notifier.errors)
	assert.Empty(t, f.notifier.successes)
}

// A second call overwrites the shared call state; after both settle the
// state reflects only the later call's outcome.
func TestSecondCallOverwritesCallState(t *testing.T) {
	fail := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "disk full", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-out"))
	})

	f := newFixture(t, handler)

	res := f.ops.Compress(context.Background(), testFiles()[0], service.CompressOptions{Level: 2})
	require.NotNil(t, res)
	assert.Equal(t, 100, f.ops.State().Progress)

	fail = true
	res = f.ops.Compress(context.Background(), testFiles()[0], service.CompressOptions{Level: 2})
	assert.Nil(t, res)

	state := f.ops.State()
	assert.False(t, state.Loading)
	assert.Equal(t, "disk full", state.Err)
}

// Two calls in flight at once share the call state with no ordering
// guarantee; whichever completes last determines the settled state.
func TestConcurrentCallsSettleToLastCompletion(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/pdf/compress":
			close(entered)
			<-release
			http.Error(w, "storage offline", http.StatusServiceUnavailable)
		case "/api/v1/pdf/merge":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-merged"))
		default:
			http.NotFound(w, r)
		}
	})

	f := newFixture(t, handler)

	firstDone := make(chan *service.Result, 1)
	go func() {
		firstDone <- f.ops.Compress(context.Background(), testFiles()[0], service.CompressOptions{Level: 2})
	}()

	// Start the second call while the first is held open by the server.
	<-entered
	res := f.ops.Merge(context.Background(), testFiles(), service.MergeOptions{})
	require.NotNil(t, res)

	state := f.ops.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
	assert.Equal(t, 100, state.Progress)

	// Releasing the first call lets it fail last and overwrite the second
	// call's success in the shared state.
	close(release)
	assert.Nil(t, <-firstDone)

	state = f.ops.State()
	assert.False(t, state.Loading)
	assert.Equal(t, "storage offline", state.Err)
}

func TestFailureKeepsLastReportedProgress(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "conversion failed", http.StatusBadGateway)
	})

	f := newFixture(t, handler)

	res := f.ops.ConvertToWord(context.Background(), service.File{Name: "a.pdf", Data: make([]byte, 32<<10)})

	assert.Nil(t, res)
	state := f.ops.State()
	assert.Equal(t, "conversion failed", state.Err)
	assert.Equal(t, 100, state.Progress, "upload completed before the server rejected it")
}

func TestFetchMetadataIsSilentOnSuccess(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages": 3}`))
	})

	f := newFixture(t, handler)

	res := f.ops.FetchMetadata(context.Background(), testFiles()[0])

	require.NotNil(t, res)
	assert.True(t, res.IsJSON())
	assert.Empty(t, f.notifier.successes)
	assert.Empty(t, f.notifier.errors)
}

func TestOpenDocumentFeedsStore(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	doc := f.ops.OpenDocument("scan.pdf", "/tmp/scan.pdf", []byte("not really a pdf"))

	require.NotNil(t, doc)
	assert.Empty(t, doc.Pages, "inspection failure degrades to an empty page list")

	active := f.store.ActiveDocument()
	require.NotNil(t, active)
	assert.Equal(t, doc.ID, active.ID)
	assert.Equal(t, []string{"/tmp/scan.pdf"}, f.store.RecentFiles())
}

func TestOpenDocumentWithoutPathSkipsRecent(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	f.ops.OpenDocument("pasted.pdf", "", []byte("bytes"))

	assert.Empty(t, f.store.RecentFiles())
}

func TestNewDocument(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	doc := f.ops.NewDocument("untitled.pdf")

	require.NotNil(t, doc)
	assert.Equal(t, 1.0, doc.Zoom)
	assert.False(t, doc.Modified)

	active := f.store.ActiveDocument()
	require.NotNil(t, active)
	assert.Equal(t, doc.ID, active.ID)
}

func TestSaveResultMarksActiveSaved(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-compressed"))
	})

	f := newFixture(t, handler)

	doc := f.ops.OpenDocument("big.pdf", "/tmp/big.pdf", []byte("%PDF-big"))
	f.store.SetZoom(2.0) // dirty the document

	res := f.ops.Compress(context.Background(), service.File{Name: "big.pdf", Data: []byte("%PDF-big")}, service.CompressOptions{Level: 3})
	require.NotNil(t, res)

	path := f.ops.SaveResult(res, "big-compressed.pdf")
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-compressed"), data)

	saved, ok := f.store.Document(doc.ID)
	require.True(t, ok)
	assert.False(t, saved.Modified)
	assert.Equal(t, path, saved.Path)
}

func TestSaveResultFailureReturnsEmpty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	f := newFixture(t, handler)

	res := f.ops.FetchStatus(context.Background())
	require.NotNil(t, res)

	path := f.ops.SaveResult(res, "out.pdf")

	assert.Empty(t, path)
	assert.NotEmpty(t, f.notifier.errors)
}
