package service

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Options supplies the scalar and structured parts of an operation request.
// Implementations return field values keyed by part name; scalars are
// stringified and structured values JSON-encoded by the shared helpers
// below, so every operation serializes uniformly.
type Options interface {
	values() map[string]string
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func structured(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// MergeOptions controls the merge operation.
type MergeOptions struct {
	// SortType orders the inputs before merging: "name", "date", or
	// "" to keep the given order.
	SortType string
}

func (o MergeOptions) values() map[string]string {
	v := map[string]string{}
	if o.SortType != "" {
		v["sortType"] = o.SortType
	}
	return v
}

// SplitPagesOptions controls splitting by explicit page ranges.
type SplitPagesOptions struct {
	// Ranges holds expressions like "1-3" or "4,7-9", one output per entry.
	Ranges []string
}

func (o SplitPagesOptions) values() map[string]string {
	v := map[string]string{}
	if len(o.Ranges) > 0 {
		v["ranges"] = structured(o.Ranges)
	}
	return v
}

// SplitSizeOptions controls splitting into size-bounded parts.
type SplitSizeOptions struct {
	MaxSizeMB float64
}

func (o SplitSizeOptions) values() map[string]string {
	v := map[string]string{}
	if o.MaxSizeMB > 0 {
		v["maxSizeMB"] = scalar(o.MaxSizeMB)
	}
	return v
}

// SplitChaptersOptions controls splitting at outline chapter boundaries.
type SplitChaptersOptions struct {
	// Level is the outline depth to split at, 1 for top-level chapters.
	Level int
}

func (o SplitChaptersOptions) values() map[string]string {
	v := map[string]string{}
	if o.Level > 0 {
		v["level"] = scalar(o.Level)
	}
	return v
}

// RotateOptions controls page rotation.
type RotateOptions struct {
	// Angle is degrees clockwise: 90, 180, or 270.
	Angle int
	// Pages selects pages by range expression; empty rotates all.
	Pages []string
}

func (o RotateOptions) values() map[string]string {
	v := map[string]string{"angle": scalar(o.Angle)}
	if len(o.Pages) > 0 {
		v["pages"] = structured(o.Pages)
	}
	return v
}

// PageRangeOptions selects pages for extraction or removal.
type PageRangeOptions struct {
	Pages []string
}

func (o PageRangeOptions) values() map[string]string {
	v := map[string]string{}
	if len(o.Pages) > 0 {
		v["pages"] = structured(o.Pages)
	}
	return v
}

// CompressOptions controls compression aggressiveness.
type CompressOptions struct {
	// Level ranges 1 (lightest) to 4 (most aggressive).
	Level int
}

func (o CompressOptions) values() map[string]string {
	return map[string]string{"level": scalar(o.Level)}
}

// PasswordOptions carries passwords for encryption operations.
type PasswordOptions struct {
	Password      string
	OwnerPassword string
}

func (o PasswordOptions) values() map[string]string {
	v := map[string]string{}
	if o.Password != "" {
		v["password"] = o.Password
	}
	if o.OwnerPassword != "" {
		v["ownerPassword"] = o.OwnerPassword
	}
	return v
}

// Permissions is the structured permission set for change-permissions.
type Permissions struct {
	Print    bool `json:"print"`
	Copy     bool `json:"copy"`
	Modify   bool `json:"modify"`
	Annotate bool `json:"annotate"`
}

// PermissionsOptions controls the change-permissions operation.
type PermissionsOptions struct {
	OwnerPassword string
	Permissions   Permissions
}

func (o PermissionsOptions) values() map[string]string {
	v := map[string]string{"permissions": structured(o.Permissions)}
	if o.OwnerPassword != "" {
		v["ownerPassword"] = o.OwnerPassword
	}
	return v
}

// WatermarkOptions controls watermark insertion. Image watermarks pass the
// image as an additional file payload; these options cover placement.
type WatermarkOptions struct {
	Text     string
	Opacity  float64
	Position string
	FontSize int
}

func (o WatermarkOptions) values() map[string]string {
	v := map[string]string{}
	if o.Text != "" {
		v["text"] = o.Text
	}
	if o.Opacity > 0 {
		v["opacity"] = scalar(o.Opacity)
	}
	if o.Position != "" {
		v["position"] = o.Position
	}
	if o.FontSize > 0 {
		v["fontSize"] = scalar(o.FontSize)
	}
	return v
}

// ConvertImageOptions controls page-to-image conversion.
type ConvertImageOptions struct {
	// Format is the output image format: "png" or "jpeg".
	Format string
	DPI    int
}

func (o ConvertImageOptions) values() map[string]string {
	v := map[string]string{}
	if o.Format != "" {
		v["format"] = o.Format
	}
	if o.DPI > 0 {
		v["dpi"] = scalar(o.DPI)
	}
	return v
}

// OCROptions controls text recognition.
type OCROptions struct {
	// Languages lists recognition languages in priority order.
	Languages []string
}

func (o OCROptions) values() map[string]string {
	v := map[string]string{}
	if len(o.Languages) > 0 {
		v["languages"] = structured(o.Languages)
	}
	return v
}

// StampOptions controls stamp placement.
type StampOptions struct {
	Text     string
	Position string
	Pages    []string
	Color    string
}

func (o StampOptions) values() map[string]string {
	v := map[string]string{}
	if o.Text != "" {
		v["text"] = o.Text
	}
	if o.Position != "" {
		v["position"] = o.Position
	}
	if len(o.Pages) > 0 {
		v["pages"] = structured(o.Pages)
	}
	if o.Color != "" {
		v["color"] = o.Color
	}
	return v
}

// noOptions is used by operations that take no parameters.
type noOptions struct{}

func (noOptions) values() map[string]string { return nil }
