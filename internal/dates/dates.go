// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package dates

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// DefaultFormat is the date format used when none is provided.
	DefaultFormat = "%Y/%m/%d"

	// secondsDigits is the number of digits above which a timestamp is in milliseconds.
	secondsDigits = 10

	// defaultYear is used when the format has no year directive.
	defaultYear = 1900
)

var (
	// ErrParsing wraps failures while parsing a date string.
	ErrParsing = errors.New("error parsing date")

	location = time.Local
)

// DateStringToTimestamp parses dateString with the strftime format in local
// time and returns the Unix timestamp, in milliseconds when requested,
// rounded to the nearest integer. Missing date fields default to 1900-01-01.
func DateStringToTimestamp(dateString, format string, milliseconds bool) (int64, error) {
	if format == "" {
		format = DefaultFormat
	}

	layout, err := toLayout(format)
	if err != nil {
		return 0, err
	}

	parsed, err := time.ParseInLocation(layout, dateString, location)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrParsing, dateString, err)
	}
	if !usesDirective(format, 'Y', 'y') {
		parsed = time.Date(defaultYear, parsed.Month(), parsed.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(), parsed.Location())
	}

	timestamp := float64(parsed.UnixNano()) / float64(time.Second)
	if milliseconds {
		timestamp *= 1000
	}

	return int64(math.RoundToEven(timestamp)), nil
}

// TimestampToDateString formats timestamp with the strftime format in local
// time. Timestamps with more than ten digits are read as milliseconds.
func TimestampToDateString(timestamp int64, format string) (string, error) {
	if format == "" {
		format = DefaultFormat
	}

	layout, err := toLayout(format)
	if err != nil {
		return "", err
	}

	return FromTimestamp(timestamp).Format(layout), nil
}

// FromTimestamp returns the local time of a seconds or milliseconds timestamp.
func FromTimestamp(timestamp int64) time.Time {
	if len(strconv.FormatInt(timestamp, 10)) > secondsDigits {
		return time.UnixMilli(timestamp).In(location)
	}
	return time.Unix(timestamp, 0).In(location)
}
