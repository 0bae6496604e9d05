package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface used throughout the harness. Both *log.Logger
// and *zerolog.Logger satisfy it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger accumulates messages in memory, so that the debug output of a test can
// be shown only if the test fails. If Forward is set, every message is also passed to it.
type CapturingLogger struct {
	Forward Logger
	output  []CapturedMessage
	lock    sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	m := CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)}
	l.lock.Lock()
	l.output = append(l.output, m)
	forward := l.Forward
	l.lock.Unlock()
	if forward != nil {
		forward.Printf("%s", m.Message)
	}
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		for _, line := range strings.Split(m.Message, "\n") {
			fmt.Fprintf(dest, "%s[%s] %s\n",
				prefix,
				m.Time.Format(timestampFormat),
				line,
			)
		}
	}
}
