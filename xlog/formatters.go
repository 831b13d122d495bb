// Copyright 2015 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"
)

// Formatter defines an interface for formatting logs
type Formatter interface {
	// Format log entry string to the stream,
	// the entries are separated by space
	Format(pkg string, level LogLevel, depth int, entries ...interface{})
	// FormatKV log entry string to the stream,
	// the entries are key/value pairs
	FormatKV(pkg string, level LogLevel, depth int, entries ...interface{})
	// Flush the logs
	Flush()
	// WithCaller allows to configure if the caller shall be logged
	WithCaller(bool) Formatter
}

// NewStringFormatter returns string-based formatter, suitable for piping to
// a file via gopkg.in/natefinch/lumberjack.v2.
func NewStringFormatter(w io.Writer) Formatter {
	if w == nil {
		w = io.Discard
	}
	return &StringFormatter{
		w:          bufio.NewWriter(w),
		withCaller: true,
	}
}

// StringFormatter defines string-based formatter
type StringFormatter struct {
	w          *bufio.Writer
	withCaller bool
}

// FormatKV log entry string to the stream,
// the entries are key/value pairs
func (s *StringFormatter) FormatKV(pkg string, level LogLevel, depth int, entries ...interface{}) {
	s.Format(pkg, level, depth+1, flatten(entries...))
}

// WithCaller allows to configure if the caller shall be logged
func (s *StringFormatter) WithCaller(val bool) Formatter {
	s.withCaller = val
	return s
}

// Format log entry string to the stream
func (s *StringFormatter) Format(pkg string, l LogLevel, depth int, entries ...interface{}) {
	now := time.Now().UTC()
	s.w.WriteString(now.Format(time.RFC3339))
	s.w.WriteByte(' ')
	s.w.WriteString(l.String())
	s.w.WriteString(" ")
	writeEntries(s.w, pkg, l, depth+1, s.withCaller, entries...)
	s.Flush()
}

// Flush the logs
func (s *StringFormatter) Flush() {
	s.w.Flush()
}

// NewColorFormatter returns an instance of ColorFormatter, which optionally
// wraps each line in a per-level terminal color.
func NewColorFormatter(w io.Writer, color bool) Formatter {
	return &ColorFormatter{
		w:          bufio.NewWriter(w),
		color:      color,
		withCaller: true,
	}
}

// ColorFormatter provides colorful logs format
type ColorFormatter struct {
	w          *bufio.Writer
	color      bool
	withCaller bool
}

// color pallete map
var (
	colorOff         = []byte("\033[0m")
	colorGray        = []byte("\033[0;37m") // TRACE/DEBUG
	colorLightRed    = []byte("\033[0;91m") // ERROR/CRITICAL
	colorLightGreen  = []byte("\033[0;92m") // NOTICE
	colorLightOrange = []byte("\033[0;93m") // WARNING
	colorLightCyan   = []byte("\033[0;96m") // INFO
)

// levelColors maps a LogLevel to its terminal color escape sequence.
var levelColors = map[LogLevel][]byte{
	CRITICAL: colorLightRed,
	ERROR:    colorLightRed,
	WARNING:  colorLightOrange,
	NOTICE:   colorLightGreen,
	INFO:     colorLightCyan,
	DEBUG:    colorGray,
	TRACE:    colorGray,
}

// WithCaller allows to configure if the caller shall be logged
func (c *ColorFormatter) WithCaller(val bool) Formatter {
	c.withCaller = val
	return c
}

// FormatKV log entry string to the stream,
// the entries are key/value pairs
func (c *ColorFormatter) FormatKV(pkg string, level LogLevel, depth int, entries ...interface{}) {
	c.Format(pkg, level, depth+1, flatten(entries...))
}

// Format log entry string to the stream
func (c *ColorFormatter) Format(pkg string, l LogLevel, depth int, entries ...interface{}) {
	now := time.Now()
	c.w.WriteString(now.Format("2006-01-02 15:04:05.000000"))
	if c.color {
		c.w.Write(levelColors[l])
	}
	c.w.WriteString(fmt.Sprintf(" %-8s | ", l))
	writeEntries(c.w, pkg, l, depth+1, c.withCaller, entries...)
	if c.color {
		c.w.Write(colorOff)
	}
	c.Flush()
}

// Flush the logs
func (c *ColorFormatter) Flush() {
	c.w.Flush()
}

func writeEntries(w *bufio.Writer, pkg string, _ LogLevel, depth int, withCaller bool, entries ...interface{}) {
	if pkg != "" {
		w.WriteString(pkg + ": ")
	}
	if withCaller {
		w.WriteString("src=")
		w.WriteString(callerName(depth + 1))
		w.WriteString(", ")
	}
	str := fmt.Sprint(entries...)
	w.WriteString(str)
	if !strings.HasSuffix(str, "\n") {
		w.WriteString("\n")
	}
}

func flatten(kvList ...interface{}) string {
	buf := bytes.Buffer{}
	for i := 0; i < len(kvList); i += 2 {
		k, ok := kvList[i].(string)
		if !ok {
			k = fmt.Sprint(kvList[i])
		}
		var v interface{}
		if i+1 < len(kvList) {
			v = kvList[i+1]
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(k)
		buf.WriteString("=")
		buf.WriteString(String(v))
	}
	return buf.String()
}

// String returns a value rendered suitably for a log line.
func String(value interface{}) string {
	if err, ok := value.(error); ok {
		if _, ok := value.(json.Marshaler); !ok {
			return fmt.Sprintf("%+v", err)
		}
	}
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return fmt.Sprint(value)
	}
	return strings.TrimSpace(buffer.String())
}

func callerName(depth int) string {
	pc, _, _, ok := runtime.Caller(depth)
	details := runtime.FuncForPC(pc)
	if ok && details != nil {
		name := details.Name()
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		return name
	}
	return "n/a"
}
