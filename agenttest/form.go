package agenttest

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"sort"
)

// File is an in-memory attachment for Input.
type File struct {
	Name    string
	Content io.Reader
}

type attachment struct {
	field string
	name  string
	r     io.Reader
}

type form struct {
	fields url.Values
	order  []string
	files  []attachment
}

func newForm() *form {
	return &form{fields: make(url.Values)}
}

func (f *form) empty() bool {
	return len(f.order) == 0 && len(f.files) == 0
}

func (f *form) add(data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := data[k].(type) {
		case File:
			f.files = append(f.files, attachment{field: k, name: v.Name, r: v.Content})
		case *File:
			f.files = append(f.files, attachment{field: k, name: v.Name, r: v.Content})
		case *os.File:
			f.files = append(f.files, attachment{field: k, name: filepath.Base(v.Name()), r: v})
		case []string:
			f.set(k, v...)
		case []any:
			vs := make([]string, len(v))
			for i := range v {
				vs[i] = fmt.Sprint(v[i])
			}
			f.set(k, vs...)
		case nil:
			f.set(k, "")
		default:
			f.set(k, fmt.Sprint(v))
		}
	}
}

func (f *form) set(key string, vs ...string) {
	if _, ok := f.fields[key]; !ok {
		f.order = append(f.order, key)
	}
	f.fields[key] = vs
}

func (f *form) values() url.Values {
	return f.fields
}

// writeMultipart writes fields then attachments and returns the content
// type carrying the boundary.
func (f *form) writeMultipart(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)
	for _, k := range f.order {
		for _, v := range f.fields[k] {
			if err := mw.WriteField(k, v); err != nil {
				return "", err
			}
		}
	}
	for _, a := range f.files {
		part, err := mw.CreateFormFile(a.field, a.name)
		if err != nil {
			return "", err
		}
		if a.r != nil {
			if _, err := io.Copy(part, a.r); err != nil {
				return "", fmt.Errorf("attach %s: %w", a.field, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}
