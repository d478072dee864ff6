package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies where a failure came from so callers can branch without
// parsing message text.
type Kind string

const (
	KindUnknown    Kind = ""
	KindTransport  Kind = "transport"
	KindHTTP       Kind = "http"
	KindValidation Kind = "validation"
	KindDecode     Kind = "decode"
)

type CustomizedError struct {
	cause   error
	message string
	trace   []string
	wrap    error
	code    int
	kind    Kind
	data    map[string]interface{}
}

func (e *CustomizedError) WithData(data map[string]interface{}) *CustomizedError {
	e.data = data
	return e
}

func (e *CustomizedError) Data() map[string]interface{} {
	return e.data
}

func (e *CustomizedError) Code(c int) *CustomizedError {
	e.code = c
	return e
}

func (e *CustomizedError) GetCode() int {
	return e.code
}

func (e *CustomizedError) Kind(k Kind) *CustomizedError {
	e.kind = k
	return e
}

func (e *CustomizedError) GetKind() Kind {
	return e.kind
}

func New(trace, message string, err error) *CustomizedError {
	code := http.StatusInternalServerError
	return &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		code:    code,
	}
}

// Validation builds a local validation failure. No request was sent.
func Validation(trace, message string) *CustomizedError {
	return New(trace, message, nil).Kind(KindValidation).Code(http.StatusBadRequest)
}

func (e *CustomizedError) Trace(trace string) *CustomizedError {
	e.trace = append(e.trace, trace)
	return e
}

func Wrap(err error, trace, message string) *CustomizedError {
	ce := &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		wrap:    err,
	}
	if income, ok := err.(*CustomizedError); ok {
		ce.code = income.code
		ce.kind = income.kind
	}
	return ce
}

func Trace(trace string, err error) *CustomizedError {
	if ce, ok := err.(*CustomizedError); ok {
		ce.trace = append(ce.trace, trace)
		return ce
	}
	return Wrap(err, trace, err.Error())
}

func (e *CustomizedError) Message() string {
	if e.message == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

// Error returns the human readable message. Use Detail for the full trace.
func (e *CustomizedError) Error() string {
	return e.Message()
}

func (e *CustomizedError) Unwrap() error {
	return e.cause
}

// Detail renders the trace chain, code and wrapped errors for logs.
func (e *CustomizedError) Detail() string {
	otherDetails := `""`
	if ce, ok := e.wrap.(*CustomizedError); ok {
		otherDetails = ce.Detail()
	} else if e.wrap != nil {
		otherDetails = fmt.Sprint("\"", e.wrap.Error(), "\"")
	}
	return fmt.Sprintf(`{"trace":"%s","code":%d,"kind":"%s","msg":"%s","error":"%v","wrapd":%s}`, strings.Join(e.trace, "->"), e.code, e.kind, e.message, e.cause, otherDetails)
}

// IsKind reports whether any CustomizedError in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *CustomizedError
	for err != nil {
		if !stderrors.As(err, &ce) {
			return false
		}
		if ce.kind == kind {
			return true
		}
		err = ce.cause
	}
	return false
}

// StatusCode returns the status code carried by the outermost CustomizedError
// in err's chain, whatever its kind, or 0 when none is set.
func StatusCode(err error) int {
	var ce *CustomizedError
	if stderrors.As(err, &ce) {
		return ce.code
	}
	return 0
}
