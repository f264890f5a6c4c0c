// Package docs renders the schema registry as a single HTML page: a
// navigation list, the custom types and one section per API with its
// parameters, required parameters and examples.
package docs

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/buildwithgo/apidef/logging"
	"github.com/buildwithgo/apidef/schema"
)

// DefaultPrettifyURL is the syntax highlighter loaded after the page.
const DefaultPrettifyURL = "https://cdn.jsdelivr.net/gh/google/code-prettify@master/loader/run_prettify.js"

//go:embed assets
var assets embed.FS

// Data is everything the page shows.
type Data struct {
	Schemas []*schema.Schema       `json:"schemas" yaml:"schemas"`
	Types   map[string]schema.Type `json:"types" yaml:"types"`
}

// FromRegistry collects the schemas, in registration order, and the types
// of reg.
func FromRegistry(reg *schema.Registry) Data {
	data := Data{
		Schemas: reg.Schemas(),
		Types:   make(map[string]schema.Type),
	}
	for _, t := range reg.Types() {
		data.Types[t.Name] = t
	}
	return data
}

// Config controls how the page is rendered.
type Config struct {
	Title       string
	Language    language.Tag
	PrettifyURL string
	// AssetsURL is where the stylesheet is served. When empty the
	// stylesheet is inlined.
	AssetsURL string
	Template  *template.Template
	Logger    logging.Logger
}

// Option configures rendering.
type Option func(*Config)

func WithTitle(title string) Option {
	return func(c *Config) {
		c.Title = title
	}
}

// WithLanguage picks the page labels. English and Chinese are available;
// other tags fall back to the closest match.
func WithLanguage(tag language.Tag) Option {
	return func(c *Config) {
		c.Language = tag
	}
}

func WithPrettifyURL(url string) Option {
	return func(c *Config) {
		c.PrettifyURL = url
	}
}

func WithAssetsURL(url string) Option {
	return func(c *Config) {
		c.AssetsURL = strings.TrimRight(url, "/")
	}
}

// WithTemplate replaces the page template. It is executed with a *Page.
func WithTemplate(t *template.Template) Option {
	return func(c *Config) {
		c.Template = t
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(c *Config) {
		c.Logger = logging.OrNop(logger)
	}
}

func newConfig(opts []Option) *Config {
	config := &Config{
		Title:       "API Docs",
		Language:    language.English,
		PrettifyURL: DefaultPrettifyURL,
		Template:    defaultTemplate,
		Logger:      logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Render writes the docs page for data to w.
func Render(w io.Writer, data Data, opts ...Option) error {
	config := newConfig(opts)
	page, err := buildPage(data, config)
	if err != nil {
		return err
	}
	if err := config.Template.Execute(w, page); err != nil {
		return fmt.Errorf("docs: execute template: %w", err)
	}
	return nil
}

// Page is the view model handed to the template.
type Page struct {
	Title       string
	Lang        string
	Labels      Labels
	PrettifyURL string
	AssetsURL   string
	InlineCSS   template.CSS
	Nav         []NavGroup
	Types       []TypeView
	Schemas     []SchemaView
}

type NavGroup struct {
	Title string
	Items []NavItem
}

type NavItem struct {
	Anchor template.URL
	Label  string
}

type TypeView struct {
	Name        string
	Description string
	Checker     string
	Formatter   string
}

type SchemaView struct {
	ID          string
	Anchor      template.URL
	Route       string
	Title       string
	Description string
	Group       string
	Source      string
	Params      []ParamView
	Required    []string
	Examples    []ExampleView
}

type ParamView struct {
	Name            string
	Type            string
	TypeDescription string
	Comment         string
	Default         string
	HasDefault      bool
}

type ExampleView struct {
	Comment string
	Input   string
	Output  string
}

func buildPage(data Data, config *Config) (*Page, error) {
	tag := Match(config.Language)
	page := &Page{
		Title:       config.Title,
		Lang:        tag.String(),
		Labels:      LabelsFor(tag),
		PrettifyURL: config.PrettifyURL,
		AssetsURL:   config.AssetsURL,
	}
	if page.AssetsURL == "" {
		css, err := assets.ReadFile("assets/docs.css")
		if err != nil {
			return nil, fmt.Errorf("docs: read stylesheet: %w", err)
		}
		page.InlineCSS = template.CSS(css)
	}

	names := make([]string, 0, len(data.Types))
	for name, t := range data.Types {
		if !t.IsDefault {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		t := data.Types[name]
		page.Types = append(page.Types, TypeView{
			Name:        name,
			Description: t.Description,
			Checker:     t.Checker,
			Formatter:   t.Formatter,
		})
	}

	groups := make(map[string]int)
	for _, s := range data.Schemas {
		view, err := buildSchema(s, data.Types, page.Labels)
		if err != nil {
			return nil, err
		}
		page.Schemas = append(page.Schemas, view)

		title := page.Labels.Other
		if s.Group != "" {
			title = groupTitle(tag, s.Group)
		}
		i, ok := groups[title]
		if !ok {
			i = len(page.Nav)
			groups[title] = i
			page.Nav = append(page.Nav, NavGroup{Title: title})
		}
		page.Nav[i].Items = append(page.Nav[i].Items, NavItem{
			Anchor: view.Anchor,
			Label:  strings.TrimSpace(view.Title + " " + view.Route),
		})
	}
	config.Logger.Debug("docs page built", "schemas", len(page.Schemas), "types", len(page.Types), "lang", page.Lang)
	return page, nil
}

func buildSchema(s *schema.Schema, types map[string]schema.Type, l Labels) (SchemaView, error) {
	view := SchemaView{
		ID:          s.ID(),
		Anchor:      template.URL("#" + s.ID()),
		Route:       s.Route(),
		Title:       s.Title,
		Description: s.Description,
		Group:       s.Group,
		Source:      s.SourceFile.Relative,
		Required:    append([]string(nil), s.Required...),
	}
	for _, names := range s.RequiredOneOf {
		view.Required = append(view.Required, strings.Join(names, ", ")+l.OneOf)
	}

	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := s.Params[name]
		pv := ParamView{
			Name:       name,
			Type:       p.Type,
			Comment:    p.Comment,
			HasDefault: p.HasDefault(),
		}
		if t, ok := types[p.Type]; ok && !t.IsDefault {
			pv.TypeDescription = t.Description
		}
		if pv.HasDefault {
			def, err := Stringify(p.Default, "")
			if err != nil {
				return view, fmt.Errorf("docs: %s param %q default: %w", s.Route(), name, err)
			}
			pv.Default = def
		}
		view.Params = append(view.Params, pv)
	}

	for i, ex := range s.Examples {
		input, err := Stringify(ex.Input, "  ")
		if err != nil {
			return view, fmt.Errorf("docs: %s example %d input: %w", s.Route(), i, err)
		}
		output, err := Stringify(ex.Output, "  ")
		if err != nil {
			return view, fmt.Errorf("docs: %s example %d output: %w", s.Route(), i, err)
		}
		view.Examples = append(view.Examples, ExampleView{
			Comment: commentLines(ex.Description),
			Input:   input,
			Output:  output,
		})
	}
	return view, nil
}

// commentLines turns a description into "// " prefixed lines.
func commentLines(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	lines := strings.Split(description, "\n")
	for i, line := range lines {
		lines[i] = "// " + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

var defaultTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="{{ .Lang }}">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{ .Title }}</title>
{{ if .AssetsURL }}<link rel="stylesheet" href="{{ .AssetsURL }}/docs.css" />{{ else }}<style>{{ .InlineCSS }}</style>{{ end }}
</head>
<body>
<div class="container">
<div class="nav"><div class="fixed">
{{ range .Nav }}<div class="nav-group">{{ .Title }}</div>
{{ range .Items }}<div class="nav-item"><a href="{{ .Anchor }}">{{ .Label }}</a></div>
{{ end }}{{ end }}</div></div>
<div class="main">
<div class="section types">
<h1>{{ .Labels.Types }}</h1>
{{ range .Types }}<div class="type-item">
<h3 class="type-name">{{ .Name }} <small>{{ .Description }}</small></h3>
<div class="type-define">
<pre class="prettyprint javascript">checker = {{ .Checker }}</pre>
<pre class="prettyprint javascript">formatter = {{ .Formatter }}</pre>
</div>
</div>
{{ end }}</div>
<div class="section schemas">
<h1>{{ .Labels.APIs }}</h1>
{{ $l := .Labels }}{{ range .Schemas }}<div class="schema" id="{{ .ID }}">
<h2 class="title"><a href="{{ .Anchor }}">{{ .Route }} {{ .Title }}</a></h2>
<div class="description">{{ .Description }}</div>
<div class="group">{{ $l.Group }}{{ .Group }}</div>
<div class="source-file">{{ $l.Source }}{{ .Source }}</div>
{{ if .Params }}<div class="block">
<div class="block-title">{{ $l.Params }}</div>
{{ range .Params }}<div class="param-item">
<span class="param-name">{{ .Name }}</span>
<span class="param-type">{{ .Type }}<span class="type-description">{{ .TypeDescription }}</span></span>
<span class="param-comment">{{ .Comment }} ({{ if .HasDefault }}<span class="param-default">{{ $l.Default }}{{ .Default }}</span>{{ else }}{{ $l.Default }}{{ $l.None }}{{ end }})</span>
</div>
{{ end }}</div>{{ end }}
{{ if .Required }}<div class="block">
<div class="block-title">{{ $l.Required }}</div>
{{ range .Required }}<div><span class="param-name">{{ . }}</span></div>
{{ end }}</div>{{ end }}
{{ if .Examples }}<div class="block">
<div class="block-title">{{ $l.Examples }}</div>
{{ range .Examples }}<div class="example">
<pre class="prettyprint javascript">{{ .Comment }}</pre>
<pre class="prettyprint javascript">input = {{ .Input }};</pre>
<pre class="prettyprint javascript">output = {{ .Output }};</pre>
</div>
{{ end }}</div>{{ end }}
</div>
{{ end }}</div>
</div>
</div>
{{ if .PrettifyURL }}<script src="{{ .PrettifyURL }}" defer></script>{{ end }}
</body>
</html>
`))
