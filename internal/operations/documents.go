package operations

import (
	"github.com/pdfdesk/pdfdesk/internal/document"
	"github.com/pdfdesk/pdfdesk/internal/service"
)

// OpenDocument loads raw PDF bytes into the session: the document is added
// to the store, becomes active, and its location (when backed by one) is
// recorded in the recent-files list. Page inspection failure degrades to an
// empty page list and is logged, never fatal.
func (f *Facade) OpenDocument(name, path string, data []byte) *document.Document {
	doc, err := document.Load(name, path, data, f.defaultZoom)
	if err != nil {
		f.logger.Warn("page inspection failed", "name", name, "error", err)
	}

	f.store.AddDocument(doc)
	if path != "" {
		f.store.AddRecentFile(path)
	}

	f.logger.Info("document opened", "id", doc.ID, "name", name, "pages", len(doc.Pages))
	return doc.Clone()
}

// NewDocument creates a blank document and adds it to the session.
func (f *Facade) NewDocument(name string) *document.Document {
	doc := document.New(name, f.defaultZoom)
	f.store.AddDocument(doc)
	return doc.Clone()
}

// SaveResult writes a binary operation result to disk and, when the active
// document produced it, marks that document saved. Returns the saved path,
// or empty when saving failed.
func (f *Facade) SaveResult(res *service.Result, suggestedName string) string {
	path, err := f.svc.Download(res, suggestedName)
	if err != nil {
		f.logger.Error("save failed", "name", suggestedName, "error", err)
		f.notifier.Error(errorMessage(err))
		return ""
	}

	if active := f.store.ActiveDocument(); active != nil {
		f.store.MarkSaved(active.ID, path)
	}

	f.notifier.Success("Saved " + suggestedName)
	return path
}
