package xlog

import (
	"io"
	"sync"
)

// LogLevel identifies the severity/verbosity of a log entry.
type LogLevel int

// Levels, ordered from least to most verbose; CRITICAL always logs regardless
// of the configured level.
const (
	CRITICAL LogLevel = iota
	ERROR
	WARNING
	NOTICE
	INFO
	DEBUG
	TRACE
)

func (l LogLevel) String() string {
	switch l {
	case CRITICAL:
		return "CRITICAL"
	case ERROR:
		return "ERROR"
	case WARNING:
		return "WARNING"
	case NOTICE:
		return "NOTICE"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

var logger = struct {
	sync.Mutex
	formatter Formatter
	level     LogLevel
}{
	formatter: NewStringFormatter(nil),
	level:     INFO,
}

var packageLoggers = struct {
	sync.Mutex
	byPackage map[string]*PackageLogger
}{byPackage: map[string]*PackageLogger{}}

// NewPackageLogger returns (creating it, if necessary) the logger registered
// for "repo/pkg". Repeated calls with the same arguments return the same
// instance. A newly created logger starts at level INFO.
func NewPackageLogger(repo, pkg string) *PackageLogger {
	key := repo + "/" + pkg
	packageLoggers.Lock()
	defer packageLoggers.Unlock()
	if p, ok := packageLoggers.byPackage[key]; ok {
		return p
	}
	p := &PackageLogger{pkg: pkg, level: INFO}
	packageLoggers.byPackage[key] = p
	return p
}

// SetGlobalLogLevel sets the log level of every PackageLogger created so far;
// loggers created afterwards still start at INFO.
func SetGlobalLogLevel(l LogLevel) {
	packageLoggers.Lock()
	defer packageLoggers.Unlock()
	for _, p := range packageLoggers.byPackage {
		p.level = l
	}
	logger.Lock()
	logger.level = l
	logger.Unlock()
}

// SetFormatter installs the Formatter used by every PackageLogger.
func SetFormatter(f Formatter) {
	logger.Lock()
	defer logger.Unlock()
	logger.formatter = f
}

// GetFormatter returns the Formatter currently installed, so callers (such as
// logrotate) can save and later restore it.
func GetFormatter() Formatter {
	logger.Lock()
	defer logger.Unlock()
	return logger.formatter
}

// NewDefaultFormatter returns the Formatter installed by default for a given
// destination: a StringFormatter, matching the out-of-the-box behavior of
// NewStringFormatter(nil) above.
func NewDefaultFormatter(w io.Writer) Formatter {
	return NewStringFormatter(w)
}
