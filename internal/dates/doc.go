// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package dates converts between date strings and Unix timestamps as used by
// GIS portals, where dates travel as epoch milliseconds.
//
// Formats use strftime directives (for example "%Y/%m/%d") so that scripts can
// share them with the portal tooling; they are translated to Go layouts.
package dates
