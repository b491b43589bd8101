// Package logger contains a leveled log handler.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"
)

// Level is a log level.
type Level int

// Log levels.
const (
	Debug Level = iota + 1
	Info
	Warn
	Error
)

// Logger is a log handler.
type Logger struct {
	level   Level
	out     io.Writer
	doColor bool
	timeNow func() time.Time

	mutex sync.Mutex
	buf   bytes.Buffer
}

// New allocates a log handler that writes to out.
// Level tags are colored when out is a terminal.
func New(level Level, out io.Writer) *Logger {
	doColor := false
	if f, ok := out.(*os.File); ok {
		doColor = term.IsTerminal(int(f.Fd()))
	}

	return &Logger{
		level:   level,
		out:     out,
		doColor: doColor,
		timeNow: time.Now,
	}
}

// SetLevel changes the minimum level that gets written.
func (lh *Logger) SetLevel(level Level) {
	lh.mutex.Lock()
	defer lh.mutex.Unlock()
	lh.level = level
}

func (lh *Logger) writeTime() {
	s := lh.timeNow().Format("2006/01/02 15:04:05 ")
	if lh.doColor {
		lh.buf.WriteString(color.RenderString(color.Gray.Code(), s))
	} else {
		lh.buf.WriteString(s)
	}
}

func (lh *Logger) writeLevel(level Level) {
	var tag string
	var code string

	switch level {
	case Debug:
		tag, code = "DEB", color.Debug.Code()
	case Info:
		tag, code = "INF", color.Green.Code()
	case Warn:
		tag, code = "WAR", color.Warn.Code()
	case Error:
		tag, code = "ERR", color.Error.Code()
	}

	if lh.doColor {
		lh.buf.WriteString(color.RenderString(code, tag))
	} else {
		lh.buf.WriteString(tag)
	}
	lh.buf.WriteByte(' ')
}

// Log writes a log entry.
func (lh *Logger) Log(level Level, format string, args ...interface{}) {
	lh.mutex.Lock()
	defer lh.mutex.Unlock()

	if level < lh.level {
		return
	}

	lh.buf.Reset()
	lh.writeTime()
	lh.writeLevel(level)
	fmt.Fprintf(&lh.buf, format, args...)
	lh.buf.WriteByte('\n')
	lh.out.Write(lh.buf.Bytes()) //nolint:errcheck
}
