package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/pdfdesk/pdfdesk/internal/config"
)

// Operation paths under the service's common prefix.
const (
	basePath = "/api/v1/pdf"

	pathMerge             = "/merge"
	pathSplitByPages      = "/split-by-pages"
	pathSplitBySize       = "/split-by-size"
	pathSplitByChapters   = "/split-by-chapters"
	pathRotate            = "/rotate"
	pathExtractPages      = "/extract-pages"
	pathRemovePages       = "/remove-pages"
	pathCompress          = "/compress"
	pathAddPassword       = "/add-password"
	pathRemovePassword    = "/remove-password"
	pathChangePermissions = "/change-permissions"
	pathAddWatermark      = "/add-watermark"
	pathRemoveWatermark   = "/remove-watermark"
	pathConvertToImage    = "/convert-to-image"
	pathConvertToWord     = "/convert-to-word"
	pathConvertToHTML     = "/convert-to-html"
	pathConvertToText     = "/convert-to-text"
	pathConvertToCSV      = "/convert-to-csv"
	pathConvertToXML      = "/convert-to-xml"
	pathOCR               = "/ocr"
	pathAddStamp          = "/add-stamp"
	pathMetadata          = "/metadata"
	pathStatus            = "/status"
)

type client struct {
	http          *http.Client
	baseURL       string
	timeout       time.Duration
	maxUploadSize int64
	downloadDir   string
	logger        *slog.Logger
}

// New creates a service client from configuration. The underlying
// http.Client carries no timeout of its own; deadlines come from the
// caller's context or the configured per-request timeout.
func New(cfg *config.ServiceConfig, logger *slog.Logger) System {
	return &client{
		http:          &http.Client{},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/") + basePath,
		timeout:       cfg.TimeoutDuration(),
		maxUploadSize: cfg.MaxUploadSizeBytes(),
		downloadDir:   cfg.DownloadDir,
		logger:        logger.With("system", "service"),
	}
}

func (c *client) Merge(ctx context.Context, files []File, opts MergeOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathMerge, files, opts, onProgress)
}

func (c *client) SplitByPages(ctx context.Context, file File, opts SplitPagesOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathSplitByPages, []File{file}, opts, onProgress)
}

func (c *client) SplitBySize(ctx context.Context, file File, opts SplitSizeOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathSplitBySize, []File{file}, opts, onProgress)
}

func (c *client) SplitByChapters(ctx context.Context, file File, opts SplitChaptersOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathSplitByChapters, []File{file}, opts, onProgress)
}

func (c *client) Rotate(ctx context.Context, file File, opts RotateOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathRotate, []File{file}, opts, onProgress)
}

func (c *client) ExtractPages(ctx context.Context, file File, opts PageRangeOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathExtractPages, []File{file}, opts, onProgress)
}

func (c *client) RemovePages(ctx context.Context, file File, opts PageRangeOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathRemovePages, []File{file}, opts, onProgress)
}

func (c *client) Compress(ctx context.Context, file File, opts CompressOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathCompress, []File{file}, opts, onProgress)
}

func (c *client) AddPassword(ctx context.Context, file File, opts PasswordOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathAddPassword, []File{file}, opts, onProgress)
}

func (c *client) RemovePassword(ctx context.Context, file File, opts PasswordOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathRemovePassword, []File{file}, opts, onProgress)
}

func (c *client) ChangePermissions(ctx context.Context, file File, opts PermissionsOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathChangePermissions, []File{file}, opts, onProgress)
}

// AddWatermark accepts multiple payloads: the document first, optionally
// followed by a watermark image.
func (c *client) AddWatermark(ctx context.Context, files []File, opts WatermarkOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathAddWatermark, files, opts, onProgress)
}

func (c *client) RemoveWatermark(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathRemoveWatermark, []File{file}, noOptions{}, onProgress)
}

func (c *client) ConvertToImages(ctx context.Context, file File, opts ConvertImageOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathConvertToImage, []File{file}, opts, onProgress)
}

func (c *client) ConvertToWord(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathConvertToWord, []File{file}, noOptions{}, onProgress)
}

func (c *client) ConvertToHTML(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathConvertToHTML, []File{file}, noOptions{}, onProgress)
}

func (c *client) ConvertToText(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathConvertToText, []File{file}, noOptions{}, onProgress)
}

func (c *client) ConvertToCSV(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathConvertToCSV, []File{file}, noOptions{}, onProgress)
}

func (c *client) ConvertToXML(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathConvertToXML, []File{file}, noOptions{}, onProgress)
}

func (c *client) OCR(ctx context.Context, file File, opts OCROptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathOCR, []File{file}, opts, onProgress)
}

func (c *client) AddStamp(ctx context.Context, file File, opts StampOptions, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathAddStamp, []File{file}, opts, onProgress)
}

func (c *client) FetchMetadata(ctx context.Context, file File, onProgress ProgressFunc) (*Result, error) {
	return c.post(ctx, pathMetadata, []File{file}, noOptions{}, onProgress)
}

func (c *client) FetchStatus(ctx context.Context) (*Result, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathStatus, nil)
	if err != nil {
		return nil, newTransportError(err)
	}
	return c.do(req)
}

// HealthCheck reduces any status-fetch outcome to a boolean and never
// propagates the underlying error.
func (c *client) HealthCheck(ctx context.Context) bool {
	_, err := c.FetchStatus(ctx)
	if err != nil {
		c.logger.Debug("health check failed", "error", err)
		return false
	}
	return true
}

// post performs one multipart operation call. A single file is submitted as
// the part "file"; multiple files become "file0", "file1", and so on. Each
// option entry becomes its own form part.
func (c *client) post(ctx context.Context, path string, files []File, opts Options, onProgress ProgressFunc) (*Result, error) {
	var total int64
	for _, f := range files {
		total += int64(len(f.Data))
	}
	if c.maxUploadSize > 0 && total > c.maxUploadSize {
		return nil, &Error{
			Status:  0,
			Code:    "payload_too_large",
			Message: fmt.Sprintf("upload of %s exceeds limit of %s", units.HumanSize(float64(total)), units.HumanSize(float64(c.maxUploadSize))),
		}
	}

	body, contentType, err := encodeMultipart(files, opts)
	if err != nil {
		return nil, newTransportError(err)
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	size := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, newProgressReader(body, size, onProgress))
	if err != nil {
		return nil, newTransportError(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	c.logger.Debug("operation request", "path", path, "files", len(files), "size", units.HumanSize(float64(total)))
	return c.do(req)
}

func (c *client) do(req *http.Request) (*Result, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := newServerError(resp.StatusCode, body)
		c.logger.Debug("operation rejected", "path", req.URL.Path, "status", e.Status, "message", e.Message)
		return nil, e
	}

	contentType := resp.Header.Get("Content-Type")
	res := &Result{ContentType: contentType}

	if isJSON(contentType) {
		if err := json.Unmarshal(body, &res.JSON); err != nil {
			return nil, &Error{Status: 0, Message: fmt.Sprintf("decode response: %v", err)}
		}
		return res, nil
	}

	res.Binary = body
	return res, nil
}

// withDeadline applies the configured timeout when the caller's context
// carries no deadline of its own.
func (c *client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func encodeMultipart(files []File, opts Options) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for i, f := range files {
		field := "file"
		if len(files) > 1 {
			field = fmt.Sprintf("file%d", i)
		}
		part, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	values := opts.values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, values[k]); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return body, mw.FormDataContentType(), nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
