package upload

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quka-ai/course-console/pkg/errors"
)

func sized(name string, size int64) File {
	return NewFile(name, size, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("")), nil
	})
}

type recorder struct {
	success []File
	errors  []string
}

func (r *recorder) options() Options {
	return Options{
		OnSuccess: func(f File) { r.success = append(r.success, f) },
		OnError:   func(msg string) { r.errors = append(r.errors, msg) },
	}
}

func TestValidateFile_SizeLimit(t *testing.T) {
	rec := &recorder{}
	s := NewSelector(rec.options(), nil)

	err := s.ValidateFile(sized("a.md", DEFAULT_MAX_SIZE+1))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "10MB")

	assert.NoError(t, s.ValidateFile(sized("a.md", DEFAULT_MAX_SIZE)))
	assert.Len(t, rec.errors, 1)
}

func TestValidateFile_FractionalLimit(t *testing.T) {
	rec := &recorder{}
	opts := rec.options()
	opts.MaxSize = 1536 * 1024
	s := NewSelector(opts, nil)

	require.Error(t, s.ValidateFile(sized("a.md", opts.MaxSize+1)))
	assert.Contains(t, rec.errors[0], "1.5MB")
}

func TestValidateFile_Extension(t *testing.T) {
	rec := &recorder{}
	s := NewSelector(rec.options(), nil)

	assert.NoError(t, s.ValidateFile(sized("FILE.MD", 1)))
	assert.NoError(t, s.ValidateFile(sized("notes.txt", 1)))

	require.Error(t, s.ValidateFile(sized("slides.pdf", 1)))
	require.Error(t, s.ValidateFile(sized("README", 1)))
	require.Len(t, rec.errors, 2)
	assert.Contains(t, rec.errors[0], ".md, .txt")
}

func TestNewSelector_NormalizesTypes(t *testing.T) {
	s := NewSelector(Options{AllowedTypes: []string{"PDF", " .Md "}}, nil)
	assert.Equal(t, []string{".pdf", ".md"}, s.Options().AllowedTypes)
	assert.NoError(t, s.ValidateFile(sized("x.pdf", 1)))
}

func TestHandleFileSelect(t *testing.T) {
	rec := &recorder{}
	s := NewSelector(rec.options(), nil)

	assert.False(t, s.HandleFileSelect(nil))
	_, ok := s.SelectedFile()
	assert.False(t, ok)

	assert.True(t, s.HandleFileSelect([]File{sized("a.md", 1), sized("b.md", 1)}))
	f, ok := s.SelectedFile()
	require.True(t, ok)
	assert.Equal(t, "a.md", f.Name)
	require.Len(t, rec.success, 1)

	// a rejected file never replaces the current selection
	assert.False(t, s.HandleFileSelect([]File{sized("big.md", DEFAULT_MAX_SIZE+1)}))
	f, _ = s.SelectedFile()
	assert.Equal(t, "a.md", f.Name)
	assert.Len(t, rec.success, 1)
	assert.Len(t, rec.errors, 1)
}

func TestSelectedFile_FallsBackToInput(t *testing.T) {
	s := NewSelector(Options{}, StaticSource{sized("picked.md", 1)})

	f, ok := s.SelectedFile()
	require.True(t, ok)
	assert.Equal(t, "picked.md", f.Name)

	zone := NewDropZone(s)
	require.True(t, zone.Drop([]File{sized("dropped.md", 1)}))
	f, _ = s.SelectedFile()
	assert.Equal(t, "dropped.md", f.Name)

	s.Clear()
	f, _ = s.SelectedFile()
	assert.Equal(t, "picked.md", f.Name)
}

func TestDropZone_Hover(t *testing.T) {
	var flips []bool
	zone := NewDropZone(NewSelector(Options{}, nil))
	zone.OnHover = func(h bool) { flips = append(flips, h) }

	zone.DragEnter()
	zone.DragOver()
	assert.True(t, zone.Hovering())
	zone.DragLeave()
	assert.False(t, zone.Hovering())

	zone.DragEnter()
	assert.False(t, zone.Drop([]File{sized("x.exe", 1)}))
	assert.False(t, zone.Hovering())
	assert.Equal(t, []bool{true, false, true, false}, flips)
}

func TestFromPathAndCreateFormData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ch8.md")
	require.NoError(t, os.WriteFile(path, []byte("# X"), 0o644))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "ch8.md", f.Name)
	assert.EqualValues(t, 3, f.Size)

	s := NewSelector(Options{}, nil)
	require.True(t, s.HandleFileSelect([]File{f}))

	form, err := s.CreateFormData(map[string]string{"course_id": "0001"})
	require.NoError(t, err)
	assert.Equal(t, FORM_FILE_FIELD, form.FileField)
	assert.Equal(t, "ch8.md", form.FileName)
	assert.Equal(t, "0001", form.Fields["course_id"])
	raw, err := io.ReadAll(form.File)
	require.NoError(t, err)
	assert.Equal(t, "# X", string(raw))

	_, err = FromPath(filepath.Dir(path))
	assert.Error(t, err)
}

func TestCreateFormData_NoSelection(t *testing.T) {
	_, err := NewSelector(Options{}, nil).CreateFormData(nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}
