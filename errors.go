package fluent

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStack wraps err with a stack trace, unless err already carries one.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return errors.WithStack(err)
}

// StackTrace renders the stack trace carried by err, if any.
func StackTrace(err error) string {
	buf := &bytes.Buffer{}
	if st, ok := err.(stackTracer); ok {
		for _, f := range st.StackTrace() {
			fmt.Fprintf(buf, "%+v\n", f)
		}
	}
	return buf.String()
}

// Errorf wraps fmt.Errorf's result with a stack trace.
func Errorf(format string, args ...any) error {
	return WithStack(fmt.Errorf(format, args...))
}
