// Package service provides the typed client for the remote document-processing
// service. Every operation builds one multipart request, applies the caller's
// cancellation or an internal timeout, and normalizes all failures into one
// error shape. No operation retries and none touches the document store.
package service

import "context"

// File is one binary payload submitted to an operation.
type File struct {
	Name string
	Data []byte
}

// Result is the uniform outcome of an operation call. JSON responses arrive
// parsed in JSON; everything else arrives raw in Binary. ContentType is the
// response's declared content type either way.
type Result struct {
	ContentType string
	JSON        any
	Binary      []byte
}

// IsJSON reports whether the service answered with a parsed JSON payload.
func (r *Result) IsJSON() bool {
	return r.JSON != nil
}

// System defines the remote operation surface. Implementations perform no
// output shaping beyond the JSON/binary split in Result.
type System interface {
	Merge(ctx context.Context, files []File, opts MergeOptions, onProgress ProgressFunc) (*Result, error)
	SplitByPages(ctx context.Context, file File, opts SplitPagesOptions, onProgress ProgressFunc) (*Result, error)
	SplitBySize(ctx context.Context, file File, opts SplitSizeOptions, onProgress ProgressFunc) (*Result, error)
	SplitByChapters(ctx context.Context, file File, opts SplitChaptersOptions, onProgress ProgressFunc) (*Result, error)
	Rotate(ctx context.Context, file File, opts RotateOptions, onProgress ProgressFunc) (*Result, error)
	ExtractPages(ctx context.Context, file File, opts PageRangeOptions, onProgress ProgressFunc) (*Result, error)
	RemovePages(ctx context.Context, file File, opts PageRangeOptions, onProgress ProgressFunc) (*Result, error)
	Compress(ctx context.Context, file File, opts CompressOptions, onProgress ProgressFunc) (*Result, error)
	AddPassword(ctx context.Context, file File, opts PasswordOptions, onProgress ProgressFunc) (*Result, error)
	RemovePassword(ctx context.Context, file File, opts PasswordOptions, onProgress ProgressFunc) (*Result, error)
	ChangePermissions(ctx context.Context, file File, opts PermissionsOptions, onProgress ProgressFunc) (*Result, error)
	AddWatermark(ctx context.Context, files []File, opts WatermarkOptions, onProgress ProgressFunc) (*Result, error)
	RemoveWatermark(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	ConvertToImages(ctx context.Context, file File, opts ConvertImageOptions, onProgress ProgressFunc) (*Result, error)
	ConvertToWord(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	ConvertToHTML(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	ConvertToText(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	ConvertToCSV(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	ConvertToXML(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	OCR(ctx context.Context, file File, opts OCROptions, onProgress ProgressFunc) (*Result, error)
	AddStamp(ctx context.Context, file File, opts StampOptions, onProgress ProgressFunc) (*Result, error)
	FetchMetadata(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error)
	FetchStatus(ctx context.Context) (*Result, error)
	Download(res *Result, suggestedName string) (string, error)
	HealthCheck(ctx context.Context) bool
}
