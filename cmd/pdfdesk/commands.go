package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfdesk/pdfdesk/internal/service"
)

func (app *Application) status() int {
	if app.ops.FetchStatus(context.Background()) == nil {
		fmt.Println("service unreachable")
		return 1
	}
	fmt.Println("service up")
	return 0
}

func (app *Application) merge(args []string) int {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	out := fs.String("o", "merged.pdf", "output file name")
	sort := fs.String("sort", "", "sort inputs before merging: name or date")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "merge requires at least two input files")
		return 2
	}

	files, ok := app.loadFiles(fs.Args())
	if !ok {
		return 1
	}

	res := app.ops.Merge(context.Background(), files, service.MergeOptions{SortType: *sort})
	if res == nil {
		return 1
	}
	return app.save(res, *out)
}

func (app *Application) split(args []string) int {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	ranges := fs.String("ranges", "", "page ranges, one output per comma-separated entry (e.g. 1-3,4-9)")
	out := fs.String("o", "split.zip", "output file name")
	fs.Parse(args)

	if fs.NArg() != 1 || *ranges == "" {
		fmt.Fprintln(os.Stderr, "split requires -ranges and one input file")
		return 2
	}

	files, ok := app.loadFiles(fs.Args())
	if !ok {
		return 1
	}

	opts := service.SplitPagesOptions{Ranges: strings.Split(*ranges, ",")}
	res := app.ops.SplitByPages(context.Background(), files[0], opts)
	if res == nil {
		return 1
	}
	return app.save(res, *out)
}

func (app *Application) compress(args []string) int {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	level := fs.Int("level", 2, "compression level 1-4")
	out := fs.String("o", "", "output file name (default <input>-compressed.pdf)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "compress requires one input file")
		return 2
	}

	files, ok := app.loadFiles(fs.Args())
	if !ok {
		return 1
	}

	name := *out
	if name == "" {
		base := strings.TrimSuffix(files[0].Name, filepath.Ext(files[0].Name))
		name = base + "-compressed.pdf"
	}

	res := app.ops.Compress(context.Background(), files[0], service.CompressOptions{Level: *level})
	if res == nil {
		return 1
	}
	return app.save(res, name)
}

func (app *Application) watermark(args []string) int {
	fs := flag.NewFlagSet("watermark", flag.ExitOnError)
	text := fs.String("text", "", "watermark text")
	opacity := fs.Float64("opacity", 0.5, "watermark opacity 0-1")
	position := fs.String("position", "center", "watermark position")
	out := fs.String("o", "watermarked.pdf", "output file name")
	fs.Parse(args)

	if fs.NArg() != 1 || *text == "" {
		fmt.Fprintln(os.Stderr, "watermark requires -text and one input file")
		return 2
	}

	files, ok := app.loadFiles(fs.Args())
	if !ok {
		return 1
	}

	opts := service.WatermarkOptions{Text: *text, Opacity: *opacity, Position: *position}
	res := app.ops.AddWatermark(context.Background(), files, opts)
	if res == nil {
		return 1
	}
	return app.save(res, *out)
}

func (app *Application) ocr(args []string) int {
	fs := flag.NewFlagSet("ocr", flag.ExitOnError)
	langs := fs.String("langs", "eng", "recognition languages, comma separated")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ocr requires one input file")
		return 2
	}

	files, ok := app.loadFiles(fs.Args())
	if !ok {
		return 1
	}

	opts := service.OCROptions{Languages: strings.Split(*langs, ",")}
	res := app.ops.OCR(context.Background(), files[0], opts)
	if res == nil {
		return 1
	}
	return app.print(res)
}

func (app *Application) info(args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "info requires one input file")
		return 2
	}

	files, ok := app.loadFiles(fs.Args())
	if !ok {
		return 1
	}

	res := app.ops.FetchMetadata(context.Background(), files[0])
	if res == nil {
		return 1
	}
	return app.print(res)
}

func (app *Application) recent() int {
	for _, path := range app.store.RecentFiles() {
		fmt.Println(path)
	}
	return 0
}

// loadFiles reads each path, registering the documents with the session
// store along the way.
func (app *Application) loadFiles(paths []string) ([]service.File, bool) {
	files := make([]service.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return nil, false
		}
		app.ops.OpenDocument(filepath.Base(path), path, data)
		files = append(files, service.File{Name: filepath.Base(path), Data: data})
	}
	return files, true
}

func (app *Application) save(res *service.Result, name string) int {
	if app.ops.SaveResult(res, name) == "" {
		return 1
	}
	return 0
}

func (app *Application) print(res *service.Result) int {
	if res.IsJSON() {
		out, err := json.MarshalIndent(res.JSON, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}
	os.Stdout.Write(res.Binary)
	return 0
}
