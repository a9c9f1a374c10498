package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pdfdesk/pdfdesk/internal/config"
	"github.com/pdfdesk/pdfdesk/internal/document"
	"github.com/pdfdesk/pdfdesk/internal/operations"
	"github.com/pdfdesk/pdfdesk/internal/service"
	"github.com/pdfdesk/pdfdesk/pkg/logging"
)

// Application bundles the session wiring shared by every subcommand.
type Application struct {
	config *config.Config
	store  *document.Store
	ops    *operations.Facade
	logger *slog.Logger
}

func main() {
	cfg, err := config.Load(config.BaseConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)
	store := document.NewStore(&cfg.Session, logger)
	svc := service.New(&cfg.Service, logger)
	ops := operations.New(svc, store, &cfg.Session, &consoleNotifier{}, logger)

	app := &Application{
		config: cfg,
		store:  store,
		ops:    ops,
		logger: logger,
	}

	os.Exit(app.run(os.Args[1:]))
}

func (app *Application) run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "status":
		return app.status()
	case "merge":
		return app.merge(args[1:])
	case "split":
		return app.split(args[1:])
	case "compress":
		return app.compress(args[1:])
	case "watermark":
		return app.watermark(args[1:])
	case "ocr":
		return app.ocr(args[1:])
	case "info":
		return app.info(args[1:])
	case "recent":
		return app.recent()
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pdfdesk <command> [flags] <file>...

commands:
  status     check the processing service
  merge      merge documents into one
  split      split a document by page ranges
  compress   compress a document
  watermark  add a text watermark
  ocr        recognize text in a document
  info       fetch document metadata
  recent     list recently opened files`)
}

// consoleNotifier routes operation outcomes to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println(msg) }

func (consoleNotifier) Error(msg string) { fmt.Fprintln(os.Stderr, "error:", msg) }
