// Package logger provides a custom TextFormatter for use with the
// github.com/sirupsen/logrus library.
package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = time.RFC3339

// TextFormatter renders entries as "<time> [LEVEL] [module] message k=v ...".
type TextFormatter struct {
	// Disable timestamp logging. Useful when output is redirected to a
	// logging system that already adds timestamps.
	DisableTimestamp bool

	// Timestamp format to use for display, see the time package.
	TimestampFormat string

	// The name of the tool (flent-align, ...), printed before the log
	// message. Not printed when empty.
	ModuleName string
}

// Format renders a single log entry. It is meant to be called from logrus.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = defaultTimestampFormat
		}
		b.WriteString(entry.Time.Format(format))
		b.WriteByte(' ')
	}

	fmt.Fprintf(b, "[%s] ", strings.ToUpper(entry.Level.String()))
	if f.ModuleName != "" {
		fmt.Fprintf(b, "[%s] ", f.ModuleName)
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
