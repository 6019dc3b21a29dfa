// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package auth

import (
	"fmt"
	"io"
	"strings"

	"github.com/mia-platform/gisutils/internal/logger"
)

var _ logger.Logger = &printLogger{}

// printLogger prints every message on its own line, it is used before any
// logger has been configured.
type printLogger struct {
	out io.Writer
}

func (p *printLogger) WithName(string) logger.Logger { return p }
func (p *printLogger) SetLevel(logger.Level)         {}
func (p *printLogger) Enabled(logger.Level) bool     { return true }
func (p *printLogger) Configured() bool              { return false }
func (p *printLogger) Debug(msg string, args ...any) { p.print(msg, args...) }
func (p *printLogger) Info(msg string, args ...any)  { p.print(msg, args...) }
func (p *printLogger) Warn(msg string, args ...any)  { p.print(msg, args...) }
func (p *printLogger) Error(msg string, args ...any) { p.print(msg, args...) }

func (p *printLogger) Exception(err error, msg string, args ...any) {
	p.print(fmt.Sprintf("%v %s", err, msg), args...)
}

func (p *printLogger) print(msg string, args ...any) {
	builder := new(strings.Builder)
	builder.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(builder, " %v=%v", args[i], args[i+1])
	}
	fmt.Fprintln(p.out, builder.String())
}
