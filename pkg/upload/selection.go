package upload

import (
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
)

const (
	DEFAULT_MAX_SIZE int64 = 10 << 20
)

var DefaultAllowedTypes = []string{".md", ".txt"}

type Options struct {
	MaxSize      int64
	AllowedTypes []string
	OnSuccess    func(File)
	OnError      func(msg string)
}

// Source is the native input a selection falls back to when nothing was
// selected explicitly.
type Source interface {
	Files() []File
}

// StaticSource is an input whose file list is fixed up front, e.g. a --file flag.
type StaticSource []File

func (s StaticSource) Files() []File {
	return s
}

// Selector holds the single authoritative selected file.
type Selector struct {
	opts  Options
	input Source

	mu       sync.Mutex
	selected *File
}

func NewSelector(opts Options, input Source) *Selector {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DEFAULT_MAX_SIZE
	}
	if len(opts.AllowedTypes) == 0 {
		opts.AllowedTypes = DefaultAllowedTypes
	}
	opts.AllowedTypes = lo.Map(opts.AllowedTypes, func(item string, _ int) string {
		item = strings.ToLower(strings.TrimSpace(item))
		if !strings.HasPrefix(item, ".") {
			item = "." + item
		}
		return item
	})
	return &Selector{opts: opts, input: input}
}

func (s *Selector) Options() Options {
	return s.opts
}

// ValidateFile checks size and extension. A rejection is reported through
// OnError and returned; acceptance is silent.
func (s *Selector) ValidateFile(f File) error {
	var msg string
	switch {
	case f.Size > s.opts.MaxSize:
		msg = i18n.TWithData(i18n.ERROR_FILE_TOO_LARGE, map[string]interface{}{
			"MaxSizeMB": formatMB(s.opts.MaxSize),
		})
	case !lo.Contains(s.opts.AllowedTypes, f.Ext()):
		msg = i18n.TWithData(i18n.ERROR_FILE_TYPE_UNSUPPORT, map[string]interface{}{
			"AllowedTypes": strings.Join(s.opts.AllowedTypes, ", "),
		})
	default:
		return nil
	}

	if s.opts.OnError != nil {
		s.opts.OnError(msg)
	}
	return errors.Validation("Selector.ValidateFile", msg).WithData(map[string]any{
		"file": f.Name,
		"size": f.Size,
	})
}

// HandleFileSelect takes the first file of the list. It reports whether a new
// selection was stored.
func (s *Selector) HandleFileSelect(files []File) bool {
	if len(files) == 0 {
		return false
	}
	f := files[0]
	if err := s.ValidateFile(f); err != nil {
		return false
	}

	s.mu.Lock()
	s.selected = &f
	s.mu.Unlock()

	if s.opts.OnSuccess != nil {
		s.opts.OnSuccess(f)
	}
	return true
}

// SelectedFile returns the explicit selection, otherwise the first file of the
// native input. The input fallback is returned as is, without validation.
func (s *Selector) SelectedFile() (File, bool) {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	if selected != nil {
		return *selected, true
	}

	if s.input == nil {
		return File{}, false
	}
	if files := s.input.Files(); len(files) > 0 {
		return files[0], true
	}
	return File{}, false
}

func (s *Selector) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

func formatMB(size int64) string {
	return strconv.FormatFloat(float64(size)/1024/1024, 'f', -1, 64)
}
