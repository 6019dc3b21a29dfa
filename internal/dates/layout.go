// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package dates

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnsupportedDirective is returned for strftime directives without a Go layout equivalent.
	ErrUnsupportedDirective = errors.New("unsupported format directive")
)

var directives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

// toLayout translates a strftime format into a Go time layout.
func toLayout(format string) (string, error) {
	builder := new(strings.Builder)
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			builder.WriteByte(format[i])
			continue
		}

		if i+1 == len(format) {
			return "", fmt.Errorf("%w: trailing %%", ErrUnsupportedDirective)
		}

		i++
		layout, ok := directives[format[i]]
		if !ok {
			return "", fmt.Errorf("%w: %%%c", ErrUnsupportedDirective, format[i])
		}
		builder.WriteString(layout)
	}

	return builder.String(), nil
}

// usesDirective reports whether format contains one of the directives.
func usesDirective(format string, directives ...byte) bool {
	for i := 0; i+1 < len(format); i++ {
		if format[i] != '%' {
			continue
		}

		i++
		if slices.Contains(directives, format[i]) {
			return true
		}
	}
	return false
}
