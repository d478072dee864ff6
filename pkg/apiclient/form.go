package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/samber/lo"
)

// Form is a multipart payload with at most one file part.
type Form struct {
	Fields    map[string]string
	FileField string
	FileName  string
	File      io.Reader
}

func NewForm() *Form {
	return &Form{Fields: map[string]string{}}
}

func (f *Form) Set(key, value string) *Form {
	f.Fields[key] = value
	return f
}

func (f *Form) SetFile(field, name string, r io.Reader) *Form {
	f.FileField = field
	f.FileName = name
	f.File = r
	return f
}

// Encode writes the file part first, then fields in key order.
func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if f.File != nil {
		part, err := w.CreateFormFile(f.FileField, f.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err = io.Copy(part, f.File); err != nil {
			return nil, "", fmt.Errorf("failed to copy file %s: %w", f.FileName, err)
		}
	}

	keys := lo.Keys(f.Fields)
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
