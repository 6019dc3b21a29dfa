// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package host contains the notifiers used to duplicate log lines into the
// message window of a host application.
//
// A host window exposes three severity buckets: messages, warnings and errors.
// Window writes every bucket to its own io.Writer, WAPC forwards every line
// through a waPC host call so that guests embedded in a host runtime can
// surface them to the user.
package host
