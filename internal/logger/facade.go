// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/mia-platform/gisutils/internal/host"
)

const (
	// DateToken is replaced in the log file path with the configuration time.
	DateToken = "[date]"

	dateTokenLayout = "20060102-150405"
	lineTimeLayout  = "20060102-15:04:05"
	noLogFile       = "none"

	fileSinkName    = "file"
	consoleSinkName = "console"
)

var (
	// ErrNotConfigured is returned when the facade is used before Configure.
	ErrNotConfigured = errors.New("logger is not configured")
	// ErrHostRequired is returned when forwarding is requested without a host notifier.
	ErrHostRequired = errors.New("forwarding to host requires a host notifier")
	// ErrOpenLogFile wraps failures while creating the log file sink.
	ErrOpenLogFile = errors.New("cannot open log file")
)

// Config holds the options used by Facade.Configure.
type Config struct {
	// FilePath is the log file to append to, empty means no file sink.
	// Every DateToken occurrence is replaced with the current time.
	FilePath string
	// ForwardToHost duplicates every log line into Host and disables the console sink.
	ForwardToHost bool
	// Level is the minimum level of the logger and of the sinks attached by this call.
	Level Level
	// Host receives the forwarded lines, required when ForwardToHost is set.
	Host host.Notifier
	// Console is the console sink output, it defaults to os.Stderr.
	Console io.Writer
	// Fs is the filesystem used to create the log file, it defaults to the OS one.
	Fs afero.Fs
	// JSONFormat switches the sinks to JSON lines.
	JSONFormat bool
}

// sink is an output attached to the facade, with its own level and formatter.
type sink struct {
	name    string
	path    string
	adapter hclog.SinkAdapter
	closer  io.Closer
}

// textSink writes "<time> <LEVEL> <message> key=value..." lines.
type textSink struct {
	output io.Writer
	level  Level
	nowFn  func() time.Time
}

func (s *textSink) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	lineLevel := levelFromHclog(level)
	if lineLevel < s.level {
		return
	}

	if name != "" {
		msg = name + ": " + msg
	}
	fmt.Fprintf(s.output, "%s %s %s\n", s.nowFn().Format(lineTimeLayout), lineLevel, formatMessage(msg, args...))
}

// state is shared by a Facade and all the named loggers derived from it.
type state struct {
	lock sync.Mutex

	configured bool
	level      Level
	log        hclog.InterceptLogger
	sinks      []*sink
	host       host.Notifier
	nowFn      func() time.Time
}

// Make sure that Facade is a Logger.
var _ Logger = &Facade{}

// Facade owns the logger handle of a process: its sinks, its threshold and the
// optional host forwarding. The zero value is not usable, use NewFacade.
type Facade struct {
	*state

	name string
}

// NewFacade returns an unconfigured facade, every log call is dropped until
// Configure is called.
func NewFacade() *Facade {
	return &Facade{
		state: &state{
			level: INFO,
			nowFn: time.Now,
		},
	}
}

// Configure creates the logger handle if needed and attaches the sinks
// described by cfg. Sinks attached by a previous call are kept.
func (f *Facade) Configure(cfg Config) error {
	if cfg.ForwardToHost && cfg.Host == nil {
		return ErrHostRequired
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	f.lock.Lock()
	if f.log == nil {
		f.log = hclog.NewInterceptLogger(&hclog.LoggerOptions{
			Output: io.Discard,
			Level:  hclog.Trace,
		})
	}

	logFilePath := ""
	if cfg.FilePath != "" {
		logFilePath = strings.ReplaceAll(cfg.FilePath, DateToken, f.nowFn().Format(dateTokenLayout))
		file, err := fs.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			f.lock.Unlock()
			return fmt.Errorf("%w %q: %w", ErrOpenLogFile, logFilePath, err)
		}

		f.attach(f.newSink(fileSinkName, logFilePath, file, file, cfg))
	}

	if !cfg.ForwardToHost {
		f.attach(f.newSink(consoleSinkName, "", console, nil, cfg))
		f.host = nil
	} else {
		f.host = cfg.Host
	}

	f.level = cfg.Level
	f.configured = true
	f.lock.Unlock()

	if logFilePath == "" {
		logFilePath = noLogFile
	}
	f.Info("logging created", "logfile", logFilePath)
	return nil
}

func (f *Facade) newSink(name, path string, output io.Writer, closer io.Closer, cfg Config) *sink {
	// Exception writes at ERROR, a sink never filters above it.
	level := min(cfg.Level, ERROR)

	var adapter hclog.SinkAdapter = &textSink{
		output: output,
		level:  level,
		nowFn:  f.nowFn,
	}
	if cfg.JSONFormat {
		adapter = hclog.NewSinkAdapter(&hclog.LoggerOptions{
			Output:     output,
			Level:      level.convertedLevel(),
			JSONFormat: true,
			TimeFormat: lineTimeLayout,
			TimeFn:     f.nowFn,
			Color:      hclog.ColorOff,
		})
	}

	return &sink{
		name:    name,
		path:    path,
		adapter: adapter,
		closer:  closer,
	}
}

// attach registers s on the logger handle, the caller holds the lock.
func (f *Facade) attach(s *sink) {
	f.sinks = append(f.sinks, s)
	f.log.RegisterSink(s.adapter)
}

// Reset detaches and closes every sink in attachment order and drops the
// logger handle. It is a no-op on a facade that is not configured.
func (f *Facade) Reset() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if !f.configured {
		return nil
	}

	var result *multierror.Error
	for _, s := range f.sinks {
		f.log.DeregisterSink(s.adapter)
		if s.closer == nil {
			continue
		}
		if err := s.closer.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing %s sink: %w", s.name, err))
		}
	}

	f.sinks = nil
	f.log = nil
	f.host = nil
	f.level = INFO
	f.configured = false
	return result.ErrorOrNil()
}

// Logger returns the configured logger handle.
func (f *Facade) Logger() (Logger, error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}
	return f, nil
}

// LogFilePath returns the path of the first file sink, after the date
// substitution, or an empty string.
func (f *Facade) LogFilePath() string {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, s := range f.sinks {
		if s.name == fileSinkName {
			return s.path
		}
	}
	return ""
}

func (f *Facade) WithName(name string) Logger {
	return &Facade{
		state: f.state,
		name:  name,
	}
}

func (f *Facade) SetLevel(level Level) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.level = level
}

func (f *Facade) Enabled(level Level) bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.configured && level >= f.level
}

func (f *Facade) Configured() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.configured
}

// Log emits msg at level, it reports ErrNotConfigured instead of dropping the
// message when the facade has not been configured.
func (f *Facade) Log(level Level, msg string, args ...interface{}) error {
	if !f.Configured() {
		return ErrNotConfigured
	}
	f.emit(level, false, msg, args...)
	return nil
}

func (f *Facade) Debug(msg string, args ...interface{}) {
	f.emit(DEBUG, false, msg, args...)
}

func (f *Facade) Info(msg string, args ...interface{}) {
	f.emit(INFO, false, msg, args...)
}

func (f *Facade) Warn(msg string, args ...interface{}) {
	f.emit(WARNING, false, msg, args...)
}

func (f *Facade) Error(msg string, args ...interface{}) {
	f.emit(ERROR, false, msg, args...)
}

func (f *Facade) Exception(err error, msg string, args ...interface{}) {
	notifier, now, ok := f.write(ERROR, true, msg, slices.Concat(args, []interface{}{"error", err})...)
	if !ok || notifier == nil {
		return
	}

	forward(notifier, now, FATAL, formatMessage(msg, args...))
	forward(notifier, now, FATAL, errorText(err))
}

func (f *Facade) emit(level Level, force bool, msg string, args ...interface{}) {
	notifier, now, ok := f.write(level, force, msg, args...)
	if !ok || notifier == nil {
		return
	}

	forward(notifier, now, level, formatMessage(msg, args...))
}

// write sends the message to the sinks and returns the host to forward to.
func (f *Facade) write(level Level, force bool, msg string, args ...interface{}) (host.Notifier, time.Time, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if !f.configured || (!force && level < f.level) {
		return nil, time.Time{}, false
	}

	var log hclog.Logger = f.log
	if f.name != "" {
		log = log.ResetNamed(f.name)
	}
	switch level.convertedLevel() {
	case hclog.Debug:
		log.Debug(msg, args...)
	case hclog.Info:
		log.Info(msg, args...)
	case hclog.Warn:
		log.Warn(msg, args...)
	default:
		log.Error(msg, args...)
	}

	return f.host, f.nowFn(), true
}

// forward routes a formatted line to the host bucket matching level.
func forward(notifier host.Notifier, now time.Time, level Level, message string) {
	line := fmt.Sprintf("%s - %s - %s", now.Format(lineTimeLayout), level, message)

	switch level {
	case ERROR, FATAL:
		notifier.AddError(line)
	case WARNING:
		notifier.AddWarning(line)
	default:
		notifier.AddMessage(line)
	}
}

// formatMessage appends the key/value pairs to msg.
func formatMessage(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}

	builder := new(strings.Builder)
	builder.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		builder.WriteString(" ")
		if i+1 == len(args) {
			fmt.Fprintf(builder, "EXTRA_VALUE_AT_END=%v", args[i])
			break
		}
		fmt.Fprintf(builder, "%v=%v", args[i], args[i+1])
	}
	return builder.String()
}

func errorText(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
