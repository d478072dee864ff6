package v1

import (
	"strings"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/upload"
)

// selectedForm validates the current selection and builds the multipart form.
func selectedForm(trace string, sel *upload.Selector, fields map[string]string) (upload.File, *apiclient.Form, error) {
	f, ok := sel.SelectedFile()
	if !ok {
		return f, nil, errors.Validation(trace, i18n.T(i18n.ERROR_FILE_NOT_SELECTED))
	}
	// the native input fallback has not been validated yet
	if err := sel.ValidateFile(f); err != nil {
		return f, nil, errors.Trace(trace, err)
	}
	form, err := upload.CreateFormData(f, fields)
	if err != nil {
		return f, nil, errors.Trace(trace, err)
	}
	return f, form, nil
}

// fieldError turns a (field, limit) validation result into an error. A zero
// limit means the field is missing.
func fieldError(field string, max int) error {
	if field == "" {
		return nil
	}
	if max == 0 {
		return errors.Validation("v1.fieldError", i18n.TWithData(i18n.ERROR_FIELD_REQUIRED, map[string]interface{}{"Field": field}))
	}
	return errors.Validation("v1.fieldError", i18n.TWithData(i18n.ERROR_FIELD_TOO_LONG, map[string]interface{}{"Field": field, "Max": max}))
}

// required reports the first blank field of name/value pairs.
func required(pairs ...string) (string, int) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return pairs[i], 0
		}
	}
	return "", 0
}
