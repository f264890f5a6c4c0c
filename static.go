package apidef

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
)

// StaticConfig defines configuration for serving static files.
type StaticConfig struct {
	// Root is the filesystem to serve from.
	Root fs.FS

	// Prefix is the URL path prefix stripped before opening files.
	Prefix string

	// MaxAge sets Cache-Control max-age when positive.
	MaxAge time.Duration
}

// StaticHandler creates a handler that serves files from config.Root.
// Directories are not listed.
func StaticHandler(config StaticConfig) Handler {
	if config.Prefix != "" {
		if config.Prefix[0] != '/' {
			config.Prefix = "/" + config.Prefix
		}
		config.Prefix = strings.TrimRight(config.Prefix, "/")
	}

	return func(c *Context) error {
		name := strings.TrimPrefix(c.Request.URL.Path, config.Prefix)
		name = strings.TrimPrefix(path.Clean("/"+name), "/")
		if name == "" {
			return NewHTTPError(http.StatusNotFound, "File Not Found")
		}

		f, err := config.Root.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return NewHTTPError(http.StatusNotFound, "File Not Found").SetInternal(err)
			}
			return err
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil {
			return err
		}
		if stat.IsDir() {
			return NewHTTPError(http.StatusNotFound, "File Not Found")
		}

		rs, ok := f.(io.ReadSeeker)
		if !ok {
			return errors.New("apidef: static file does not support seeking")
		}
		if config.MaxAge > 0 {
			c.SetHeader("Cache-Control", "public, max-age="+strconv.Itoa(int(config.MaxAge.Seconds())))
		}
		http.ServeContent(c.Writer, c.Request, stat.Name(), stat.ModTime(), rs)
		return nil
	}
}
