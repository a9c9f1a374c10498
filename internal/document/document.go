// Package document provides the in-memory model of open PDF documents and the
// session store that owns them. All mutation flows through the store's command
// set; presentation code never writes document fields directly.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Document represents one open PDF and its editing state.
type Document struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Path        string       `json:"path,omitempty"`
	Data        []byte       `json:"-"`
	Pages       []Page       `json:"pages"`
	CurrentPage int          `json:"current_page"`
	Zoom        float64      `json:"zoom"`
	Annotations []Annotation `json:"annotations"`
	Modified    bool         `json:"modified"`
	CreatedAt   time.Time    `json:"created_at"`
	ModifiedAt  time.Time    `json:"modified_at"`
}

// Page represents one page of a document. Numbers are dense and 1-based;
// they are re-derived after every structural change.
type Page struct {
	ID          uuid.UUID    `json:"id"`
	Number      int          `json:"number"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Rotation    int          `json:"rotation"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation represents a user annotation anchored to a page number.
type Annotation struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Page      int       `json:"page"`
	Rect      Rect      `json:"rect"`
	Text      string    `json:"text,omitempty"`
	Color     string    `json:"color,omitempty"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Rect is a position/size rectangle in page coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Kind classifies an annotation.
type Kind string

// Annotation kinds.
const (
	KindHighlight Kind = "highlight"
	KindNote      Kind = "note"
	KindDrawing   Kind = "drawing"
	KindText      Kind = "text"
	KindSignature Kind = "signature"
)

// New creates a blank document with no pages.
func New(name string, zoom float64) *Document {
	now := time.Now()
	return &Document{
		ID:          uuid.New(),
		Name:        name,
		Pages:       []Page{},
		CurrentPage: 1,
		Zoom:        zoom,
		Annotations: []Annotation{},
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

// Load creates a document backed by raw PDF bytes, populating the page
// sequence from the file's geometry. Inspection failure degrades to an
// empty page list; the caller decides whether to log it.
func Load(name, path string, data []byte, zoom float64) (*Document, error) {
	doc := New(name, zoom)
	doc.Path = path
	doc.Data = data

	pages, err := inspectPages(data)
	if err != nil {
		return doc, err
	}
	doc.Pages = pages
	return doc, nil
}

// Update carries the partial fields an update command may merge into a
// document. Nil fields are left unchanged. Applying an update always marks
// the document modified, even when every field is nil.
type Update struct {
	Name        *string
	Path        *string
	CurrentPage *int
	Zoom        *float64
	Pages       []Page
	Annotations []Annotation
	Data        []byte
}

func (d *Document) apply(u Update, now time.Time) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Path != nil {
		d.Path = *u.Path
	}
	if u.CurrentPage != nil {
		d.CurrentPage = *u.CurrentPage
	}
	if u.Zoom != nil {
		d.Zoom = *u.Zoom
	}
	if u.Pages != nil {
		d.Pages = u.Pages
		d.renumber()
	}
	if u.Annotations != nil {
		d.Annotations = u.Annotations
	}
	if u.Data != nil {
		d.Data = u.Data
	}
	d.Modified = true
	d.ModifiedAt = now
}

func (d *Document) touch() {
	d.Modified = true
	d.ModifiedAt = time.Now()
}

// renumber re-derives dense 1-based page numbers after a structural change.
func (d *Document) renumber() {
	for i := range d.Pages {
		d.Pages[i].Number = i + 1
	}
}

// Clone returns a deep copy so callers cannot mutate store-owned state.
func (d *Document) Clone() *Document {
	c := *d
	c.Pages = make([]Page, len(d.Pages))
	for i, p := range d.Pages {
		c.Pages[i] = p
		c.Pages[i].Annotations = append([]Annotation(nil), p.Annotations...)
	}
	c.Annotations = append([]Annotation(nil), d.Annotations...)
	c.Data = append([]byte(nil), d.Data...)
	return &c
}
