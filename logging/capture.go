package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// CapturedMessage is one record held by a CapturingLogger.
type CapturedMessage struct {
	Time    time.Time
	Level   string
	Message string
}

// CapturedOutput is the ordered output of a CapturingLogger.
type CapturedOutput []CapturedMessage

// CapturingLogger keeps every record in memory. Tests use it to assert on
// warnings such as ambiguous route registrations.
type CapturingLogger struct {
	attrs  []any
	shared *capture
}

type capture struct {
	output []CapturedMessage
	lock   sync.Mutex
}

// NewCapturingLogger creates an empty CapturingLogger.
func NewCapturingLogger() *CapturingLogger {
	return &CapturingLogger{shared: &capture{}}
}

func (l *CapturingLogger) Debug(msg string, attrs ...any) { l.add("DEBUG", msg, attrs) }
func (l *CapturingLogger) Info(msg string, attrs ...any)  { l.add("INFO", msg, attrs) }
func (l *CapturingLogger) Warn(msg string, attrs ...any)  { l.add("WARN", msg, attrs) }
func (l *CapturingLogger) Error(msg string, attrs ...any) { l.add("ERROR", msg, attrs) }

func (l *CapturingLogger) With(attrs ...any) Logger {
	combined := append(append([]any(nil), l.attrs...), attrs...)
	return &CapturingLogger{attrs: combined, shared: l.shared}
}

func (l *CapturingLogger) add(level, msg string, attrs []any) {
	var b strings.Builder
	b.WriteString(msg)
	all := append(append([]any(nil), l.attrs...), attrs...)
	for i := 0; i+1 < len(all); i += 2 {
		fmt.Fprintf(&b, " %v=%v", all[i], all[i+1])
	}
	l.shared.lock.Lock()
	l.shared.output = append(l.shared.output, CapturedMessage{Time: time.Now(), Level: level, Message: b.String()})
	l.shared.lock.Unlock()
}

// Output returns a copy of everything logged so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.shared.lock.Lock()
	ret := append(CapturedOutput(nil), l.shared.output...)
	l.shared.lock.Unlock()
	return ret
}

// Dump writes the captured output to dest, one record per line.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Level,
			m.Message,
		)
	}
}

// Contains reports whether any record at level includes substr.
func (output CapturedOutput) Contains(level, substr string) bool {
	for _, m := range output {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

var _ Logger = (*CapturingLogger)(nil)
