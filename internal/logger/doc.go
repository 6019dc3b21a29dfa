// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger provides the logging facade shared by gisutils scripts.
//
// A Facade owns one logger handle: a threshold and an ordered list of sinks
// (an optional append-only log file and a console stream) backed by hclog.
// When host forwarding is enabled every emitted line is also copied to a
// host.Notifier and the console sink is not attached. The facade must be
// configured explicitly; until then every call is dropped and Logger returns
// ErrNotConfigured. Loggers travel through context.Context with WithContext
// and FromContext.
package logger
