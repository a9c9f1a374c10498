// Package operations layers lifecycle bookkeeping and user-facing
// notifications over the service client. Every wrapped call follows one
// contract: reset call state, invoke the client with a progress sink, record
// the outcome, and return either the result or nil. Failures are absorbed
// here and surface as a notification plus the call state's error; they are
// never re-raised, so callers branch on nil.
package operations

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pdfdesk/pdfdesk/internal/config"
	"github.com/pdfdesk/pdfdesk/internal/document"
	"github.com/pdfdesk/pdfdesk/internal/service"
)

// CallState tracks one in-flight or most-recently-completed operation.
// Concurrent calls through the same facade overwrite it; serialization is
// the caller's responsibility.
type CallState struct {
	Loading  bool
	Err      string
	Progress int
}

// Facade coordinates remote operations on behalf of the presentation layer.
type Facade struct {
	svc         service.System
	store       *document.Store
	notifier    Notifier
	logger      *slog.Logger
	defaultZoom float64

	mu    sync.Mutex
	state CallState
}

// New creates an operation facade.
func New(svc service.System, store *document.Store, cfg *config.SessionConfig, notifier Notifier, logger *slog.Logger) *Facade {
	return &Facade{
		svc:         svc,
		store:       store,
		notifier:    notifier,
		logger:      logger.With("system", "operations"),
		defaultZoom: cfg.DefaultZoom,
	}
}

// State returns a copy of the current call state.
func (f *Facade) State() CallState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Merge combines the given files into one document.
func (f *Facade) Merge(ctx context.Context, files []service.File, opts service.MergeOptions) *service.Result {
	return f.run("merge", "Documents merged", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.Merge(ctx, files, opts, p)
	})
}

// SplitByPages splits a document at explicit page ranges.
func (f *Facade) SplitByPages(ctx context.Context, file service.File, opts service.SplitPagesOptions) *service.Result {
	return f.run("split by pages", "Document split", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.SplitByPages(ctx, file, opts, p)
	})
}

// SplitBySize splits a document into size-bounded parts.
func (f *Facade) SplitBySize(ctx context.Context, file service.File, opts service.SplitSizeOptions) *service.Result {
	return f.run("split by size", "Document split", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.SplitBySize(ctx, file, opts, p)
	})
}

// SplitByChapters splits a document at outline chapter boundaries.
func (f *Facade) SplitByChapters(ctx context.Context, file service.File, opts service.SplitChaptersOptions) *service.Result {
	return f.run("split by chapters", "Document split", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.SplitByChapters(ctx, file, opts, p)
	})
}

// Rotate rotates pages of a document.
func (f *Facade) Rotate(ctx context.Context, file service.File, opts service.RotateOptions) *service.Result {
	return f.run("rotate", "Pages rotated", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.Rotate(ctx, file, opts, p)
	})
}

// ExtractPages produces a document containing only the selected pages.
func (f *Facade) ExtractPages(ctx context.Context, file service.File, opts service.PageRangeOptions) *service.Result {
	return f.run("extract pages", "Pages extracted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ExtractPages(ctx, file, opts, p)
	})
}

// RemovePages produces a document without the selected pages.
func (f *Facade) RemovePages(ctx context.Context, file service.File, opts service.PageRangeOptions) *service.Result {
	return f.run("remove pages", "Pages removed", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.RemovePages(ctx, file, opts, p)
	})
}

// Compress reduces a document's size.
func (f *Facade) Compress(ctx context.Context, file service.File, opts service.CompressOptions) *service.Result {
	return f.run("compress", "Document compressed", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.Compress(ctx, file, opts, p)
	})
}

// AddPassword encrypts a document.
func (f *Facade) AddPassword(ctx context.Context, file service.File, opts service.PasswordOptions) *service.Result {
	return f.run("add password", "Password added", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.AddPassword(ctx, file, opts, p)
	})
}

// RemovePassword decrypts a document.
func (f *Facade) RemovePassword(ctx context.Context, file service.File, opts service.PasswordOptions) *service.Result {
	return f.run("remove password", "Password removed", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.RemovePassword(ctx, file, opts, p)
	})
}

// ChangePermissions rewrites a document's permission set.
func (f *Facade) ChangePermissions(ctx context.Context, file service.File, opts service.PermissionsOptions) *service.Result {
	return f.run("change permissions", "Permissions updated", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ChangePermissions(ctx, file, opts, p)
	})
}

// AddWatermark stamps a text or image watermark onto a document.
func (f *Facade) AddWatermark(ctx context.Context, files []service.File, opts service.WatermarkOptions) *service.Result {
	return f.run("add watermark", "Watermark added", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.AddWatermark(ctx, files, opts, p)
	})
}

// RemoveWatermark strips watermarks from a document.
func (f *Facade) RemoveWatermark(ctx context.Context, file service.File) *service.Result {
	return f.run("remove watermark", "Watermark removed", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.RemoveWatermark(ctx, file, p)
	})
}

// ConvertToImages renders document pages as images.
func (f *Facade) ConvertToImages(ctx context.Context, file service.File, opts service.ConvertImageOptions) *service.Result {
	return f.run("convert to images", "Document converted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ConvertToImages(ctx, file, opts, p)
	})
}

// ConvertToWord converts a document to Word format.
func (f *Facade) ConvertToWord(ctx context.Context, file service.File) *service.Result {
	return f.run("convert to word", "Document converted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ConvertToWord(ctx, file, p)
	})
}

// ConvertToHTML converts a document to HTML.
func (f *Facade) ConvertToHTML(ctx context.Context, file service.File) *service.Result {
	return f.run("convert to html", "Document converted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ConvertToHTML(ctx, file, p)
	})
}

// ConvertToText extracts a document's plain text.
func (f *Facade) ConvertToText(ctx context.Context, file service.File) *service.Result {
	return f.run("convert to text", "Document converted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ConvertToText(ctx, file, p)
	})
}

// ConvertToCSV extracts a document's tabular data.
func (f *Facade) ConvertToCSV(ctx context.Context, file service.File) *service.Result {
	return f.run("convert to csv", "Document converted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ConvertToCSV(ctx, file, p)
	})
}

// ConvertToXML converts a document to XML.
func (f *Facade) ConvertToXML(ctx context.Context, file service.File) *service.Result {
	return f.run("convert to xml", "Document converted", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.ConvertToXML(ctx, file, p)
	})
}

// OCR runs text recognition over a document.
func (f *Facade) OCR(ctx context.Context, file service.File, opts service.OCROptions) *service.Result {
	return f.run("ocr", "Text recognized", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.OCR(ctx, file, opts, p)
	})
}

// AddStamp stamps text onto a document's pages.
func (f *Facade) AddStamp(ctx context.Context, file service.File, opts service.StampOptions) *service.Result {
	return f.run("add stamp", "Stamp added", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.AddStamp(ctx, file, opts, p)
	})
}

// FetchMetadata retrieves document metadata. No success notification is
// configured; metadata queries are silent.
func (f *Facade) FetchMetadata(ctx context.Context, file service.File) *service.Result {
	return f.run("fetch metadata", "", func(p service.ProgressFunc) (*service.Result, error) {
		return f.svc.FetchMetadata(ctx, file, p)
	})
}

// FetchStatus retrieves the processing service's status. Silent on success.
func (f *Facade) FetchStatus(ctx context.Context) *service.Result {
	return f.run("fetch status", "", func(service.ProgressFunc) (*service.Result, error) {
		return f.svc.FetchStatus(ctx)
	})
}

func (f *Facade) run(name, successMsg string, call func(service.ProgressFunc) (*service.Result, error)) *service.Result {
	f.begin()

	res, err := call(f.setProgress)
	if err != nil {
		f.fail(name, err)
		return nil
	}

	f.succeed(successMsg)
	return res
}

func (f *Facade) begin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = CallState{Loading: true}
}

func (f *Facade) setProgress(percent int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Progress = percent
}

func (f *Facade) succeed(msg string) {
	f.mu.Lock()
	f.state.Loading = false
	f.state.Progress = 100
	f.mu.Unlock()

	if msg != "" {
		f.notifier.Success(msg)
	}
}

// fail records the failure and notifies. Progress is left at its last
// reported value.
func (f *Facade) fail(name string, err error) {
	msg := errorMessage(err)

	f.mu.Lock()
	f.state.Loading = false
	f.state.Err = msg
	f.mu.Unlock()

	f.logger.Error("operation failed", "operation", name, "error", err)
	f.notifier.Error(msg)
}

// errorMessage extracts the human-readable message from a normalized service
// error, falling back to a default when none is present.
func errorMessage(err error) string {
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "operation failed"
}
