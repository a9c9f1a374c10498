package document

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pdfdesk/pdfdesk/internal/config"
)

// Store is the single source of truth for all open documents. It owns the
// document collection, the active-document pointer, the recent-files list,
// and the session-wide loading/error flags for the lifetime of the process.
//
// Commands never fail: a command whose precondition is missing (no active
// document, unknown id) is absorbed as a no-op and logged at debug level.
// The active-document pointer, when non-nil and a collection member, aliases
// the collection entry, so the two views cannot diverge.
type Store struct {
	mu          sync.Mutex
	docs        []*Document
	active      *Document
	recent      []string
	recentLimit int
	loading     bool
	lastErr     string
	logger      *slog.Logger
}

// NewStore creates a session store.
func NewStore(cfg *config.SessionConfig, logger *slog.Logger) *Store {
	return &Store{
		recentLimit: cfg.RecentFilesLimit,
		logger:      logger.With("system", "document"),
	}
}

// AddDocument appends doc to the collection and makes it active. Any pending
// session error and the loading flag are cleared. Id uniqueness is the
// caller's responsibility.
func (s *Store) AddDocument(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = append(s.docs, doc)
	s.active = doc
	s.lastErr = ""
	s.loading = false
	s.logger.Debug("document added", "id", doc.ID, "name", doc.Name)
}

// RemoveDocument removes the document with id. If it was active, the first
// remaining document becomes active, or none when the collection is empty.
// Unknown ids are a no-op, so removal is idempotent.
func (s *Store) RemoveDocument(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("remove ignored, unknown document", "id", id)
		return
	}

	wasActive := s.active != nil && s.active.ID == id
	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)

	if wasActive {
		if len(s.docs) > 0 {
			s.active = s.docs[0]
		} else {
			s.active = nil
		}
	}
	s.logger.Debug("document removed", "id", id)
}

// SetActiveDocument replaces the active-document pointer directly. The
// document need not be a collection member; transient preview state is set
// this way. Passing nil clears the active document.
func (s *Store) SetActiveDocument(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = doc
}

// UpdateDocument merges the non-nil fields of u into the document with id,
// in both the collection and the active slot if they hold the same id. The
// document is always marked modified, even for an empty update.
func (s *Store) UpdateDocument(id uuid.UUID, u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	idx := s.indexOf(id)
	if idx >= 0 {
		s.docs[idx].apply(u, now)
	}

	// The active slot may hold a distinct object carrying the same id, such
	// as a read-side clone passed back through SetActiveDocument. Both copies
	// take the update, stamped with the same time, so the two views stay
	// deep-equal.
	if s.active != nil && s.active.ID == id && (idx < 0 || s.docs[idx] != s.active) {
		s.active.apply(u, now)
		return
	}

	if idx < 0 {
		s.logger.Debug("update ignored, unknown document", "id", id)
	}
}

// SetCurrentPage sets the active document's current page. Out-of-range
// values are stored as-is; downstream consumers are expected to be
// defensive.
func (s *Store) SetCurrentPage(page int) {
	s.withActive("set current page", func(d *Document) {
		d.CurrentPage = page
		d.touch()
	})
}

// SetZoom sets the active document's zoom factor.
func (s *Store) SetZoom(zoom float64) {
	s.withActive("set zoom", func(d *Document) {
		d.Zoom = zoom
		d.touch()
	})
}

// AddAnnotation appends an annotation to the active document.
func (s *Store) AddAnnotation(a Annotation) {
	s.withActive("add annotation", func(d *Document) {
		d.Annotations = append(d.Annotations, a)
		d.touch()
	})
}

// AnnotationUpdate carries the partial fields an annotation update may merge.
type AnnotationUpdate struct {
	Kind  *Kind
	Page  *int
	Rect  *Rect
	Text  *string
	Color *string
}

// UpdateAnnotation merges the non-nil fields of u into the active document's
// annotation with id.
func (s *Store) UpdateAnnotation(id uuid.UUID, u AnnotationUpdate) {
	s.withActive("update annotation", func(d *Document) {
		for i := range d.Annotations {
			if d.Annotations[i].ID != id {
				continue
			}
			a := &d.Annotations[i]
			if u.Kind != nil {
				a.Kind = *u.Kind
			}
			if u.Page != nil {
				a.Page = *u.Page
			}
			if u.Rect != nil {
				a.Rect = *u.Rect
			}
			if u.Text != nil {
				a.Text = *u.Text
			}
			if u.Color != nil {
				a.Color = *u.Color
			}
			d.touch()
			return
		}
		s.logger.Debug("update ignored, unknown annotation", "id", id)
	})
}

// RemoveAnnotation deletes the active document's annotation with id.
// Annotations referencing deleted pages are left in place; removal is
// independent of page lifecycle.
func (s *Store) RemoveAnnotation(id uuid.UUID) {
	s.withActive("remove annotation", func(d *Document) {
		for i := range d.Annotations {
			if d.Annotations[i].ID == id {
				d.Annotations = append(d.Annotations[:i], d.Annotations[i+1:]...)
				d.touch()
				return
			}
		}
		s.logger.Debug("remove ignored, unknown annotation", "id", id)
	})
}

// InsertPage inserts p into the active document at the 1-based position at,
// clamped to the valid insertion range, then renumbers.
func (s *Store) InsertPage(at int, p Page) {
	s.withActive("insert page", func(d *Document) {
		if at < 1 {
			at = 1
		}
		if at > len(d.Pages)+1 {
			at = len(d.Pages) + 1
		}
		d.Pages = append(d.Pages[:at-1], append([]Page{p}, d.Pages[at-1:]...)...)
		d.renumber()
		d.touch()
	})
}

// DuplicatePage copies the active document's page with the given number,
// inserting the copy directly after it.
func (s *Store) DuplicatePage(number int) {
	s.withActive("duplicate page", func(d *Document) {
		if number < 1 || number > len(d.Pages) {
			s.logger.Debug("duplicate ignored, page out of range", "page", number)
			return
		}
		dup := d.Pages[number-1]
		dup.ID = uuid.New()
		dup.Annotations = append([]Annotation(nil), dup.Annotations...)
		d.Pages = append(d.Pages[:number], append([]Page{dup}, d.Pages[number:]...)...)
		d.renumber()
		d.touch()
	})
}

// DeletePage removes the active document's page with the given number.
// Document-level annotations referencing the page are not pruned.
func (s *Store) DeletePage(number int) {
	s.withActive("delete page", func(d *Document) {
		if number < 1 || number > len(d.Pages) {
			s.logger.Debug("delete ignored, page out of range", "page", number)
			return
		}
		d.Pages = append(d.Pages[:number-1], d.Pages[number:]...)
		d.renumber()
		if len(d.Pages) > 0 && d.CurrentPage > len(d.Pages) {
			d.CurrentPage = len(d.Pages)
		}
		d.touch()
	})
}

// MovePage moves the page numbered from to position to, renumbering after.
func (s *Store) MovePage(from, to int) {
	s.withActive("move page", func(d *Document) {
		n := len(d.Pages)
		if from < 1 || from > n || to < 1 || to > n {
			s.logger.Debug("move ignored, page out of range", "from", from, "to", to)
			return
		}
		p := d.Pages[from-1]
		rest := append(d.Pages[:from-1:from-1], d.Pages[from:]...)
		d.Pages = append(rest[:to-1], append([]Page{p}, rest[to-1:]...)...)
		d.renumber()
		d.touch()
	})
}

// AddRecentFile prepends path to the recent-files list, removing any prior
// occurrence and truncating to the configured limit.
func (s *Store) AddRecentFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]string, 0, len(s.recent)+1)
	recent = append(recent, path)
	for _, r := range s.recent {
		if r != path {
			recent = append(recent, r)
		}
	}
	if len(recent) > s.recentLimit {
		recent = recent[:s.recentLimit]
	}
	s.recent = recent
}

// SetLoading sets the session-wide loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError records a session-wide error message. A non-empty message forces
// the loading flag off; an empty message clears the error.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
	if msg != "" {
		s.loading = false
	}
}

// MarkSaved clears the modified flag on the document with id, recording an
// optional new backing path.
func (s *Store) MarkSaved(id uuid.UUID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("mark saved ignored, unknown document", "id", id)
		return
	}
	doc := s.docs[idx]
	doc.Modified = false
	if path != "" {
		doc.Path = path
	}
}

// ActiveDocument returns a deep copy of the active document, or nil.
func (s *Store) ActiveDocument() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return s.active.Clone()
}

// Document returns a deep copy of the document with id.
func (s *Store) Document(id uuid.UUID) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.docs[idx].Clone(), true
	}
	return nil, false
}

// Documents returns deep copies of every open document in insertion order.
func (s *Store) Documents() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]*Document, len(s.docs))
	for i, d := range s.docs {
		docs[i] = d.Clone()
	}
	return docs
}

// RecentFiles returns the recently-opened locations, most recent first.
func (s *Store) RecentFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recent...)
}

// Loading reports the session-wide loading flag.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the session-wide error message, empty when none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, d := range s.docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// withActive runs fn against the active document, absorbing the command as a
// logged no-op when there is none.
func (s *Store) withActive(cmd string, fn func(*Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		s.logger.Debug("command ignored, no active document", "command", cmd)
		return
	}
	fn(s.active)
}
