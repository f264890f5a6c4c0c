// Command apidocs renders docs data (YAML or JSON, as exported from a
// schema registry) into the HTML docs page, either to a file or over HTTP.
//
//	apidocs -in docs.yaml -out docs.html
//	apidocs -in docs.yaml -addr :8080 -lang zh
package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/text/language"

	"github.com/buildwithgo/apidef"
	"github.com/buildwithgo/apidef/docs"
	"github.com/buildwithgo/apidef/logging"
	"github.com/buildwithgo/apidef/middlewares"
	"github.com/buildwithgo/apidef/routers"
)

func main() {
	var params commandParams
	if !params.Read(os.Args, os.Stderr) {
		os.Exit(1)
	}

	level := slog.LevelInfo
	if params.debug {
		level = slog.LevelDebug
	}
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(params, os.Stdout, logger); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "apidocs: %s\n", err)
		os.Exit(1)
	}
}

func run(params commandParams, stdout io.Writer, logger logging.Logger) error {
	data, err := docs.LoadFile(params.input)
	if err != nil {
		return err
	}
	tag, err := language.Parse(params.lang)
	if err != nil {
		return fmt.Errorf("invalid -lang %q: %w", params.lang, err)
	}
	opts := []docs.Option{
		docs.WithTitle(params.title),
		docs.WithLanguage(tag),
		docs.WithLogger(logger),
	}

	if params.output != "" {
		return writePage(params.output, data, opts, stdout)
	}

	app, err := newServer(data, opts, logger)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(stdout, "serving %d APIs on %s\n", len(data.Schemas), params.addr)
	return app.Run(params.addr)
}

func writePage(path string, data docs.Data, opts []docs.Option, stdout io.Writer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := docs.Render(f, data, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	color.New(color.FgGreen).Fprintf(stdout, "wrote %d APIs to %s\n", len(data.Schemas), abs)

	var open commandBuilder
	open.add("open", abs)
	fmt.Fprintf(stdout, "view it with: %s\n", open)
	return nil
}

func newServer(data docs.Data, opts []docs.Option, logger logging.Logger) (*apidef.App, error) {
	app := apidef.New(
		apidef.WithRouter(routers.NewTrieRouter()),
		apidef.WithLogger(logger),
	)
	app.Use(apidef.Recovery(apidef.WithRecoveryLogger(logger)))
	app.Use(middlewares.RequestID())
	app.Use(middlewares.AccessLog(logger))
	secure := middlewares.DefaultSecureConfig()
	secure.ContentSecurityPolicy = middlewares.DocsContentSecurityPolicy("https://cdn.jsdelivr.net")
	app.Use(middlewares.Secure(secure))
	app.Use(middlewares.Compress())

	page := docs.Handler(data, opts...)
	if err := app.Add(http.MethodGet, "/", func(c *apidef.Context) error {
		page.ServeHTTP(c.Writer, c.Request)
		return nil
	}); err != nil {
		return nil, err
	}
	return app, nil
}
