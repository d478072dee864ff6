package upload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
)

const FORM_FILE_FIELD = "file"

// CreateFormData reads f into memory and returns a form carrying it under the
// "file" field plus the extra fields.
func CreateFormData(f File, fields map[string]string) (*apiclient.Form, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.New("upload.CreateFormData.Open", fmt.Sprintf("failed to open %s", f.Name), err).Kind(errors.KindValidation)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.New("upload.CreateFormData.Read", fmt.Sprintf("failed to read %s", f.Name), err).Kind(errors.KindValidation)
	}

	form := apiclient.NewForm().SetFile(FORM_FILE_FIELD, f.Name, bytes.NewReader(raw))
	for k, v := range fields {
		form.Set(k, v)
	}
	return form, nil
}

// CreateFormData builds a form from the current selection.
func (s *Selector) CreateFormData(fields map[string]string) (*apiclient.Form, error) {
	f, ok := s.SelectedFile()
	if !ok {
		return nil, errors.Validation("Selector.CreateFormData", i18n.T(i18n.ERROR_FILE_NOT_SELECTED))
	}
	return CreateFormData(f, fields)
}
