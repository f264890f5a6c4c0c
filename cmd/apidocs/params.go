package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/alessio/shellescape"
)

const defaultAddr = ":8080"

type commandParams struct {
	input string
	// output is the HTML file to write. Empty means serve over HTTP.
	output string
	addr   string
	lang   string
	title  string
	debug  bool
}

func (c *commandParams) Read(args []string, stderr io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.input, "in", "", "docs data file (YAML or JSON)")
	fs.StringVar(&c.output, "out", "", "write the page to this file instead of serving it")
	fs.StringVar(&c.addr, "addr", defaultAddr, "address to serve the docs on")
	fs.StringVar(&c.lang, "lang", "en", "page language (en or zh)")
	fs.StringVar(&c.title, "title", "API Docs", "page title")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.input == "" {
		fmt.Fprintln(stderr, "-in is required")
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
