// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package request contains thin helpers to call portal REST endpoints.
//
// Send issues an anonymous GET or POST, SendWithSession uses the
// authenticated client of a portal session. Both return the raw body and,
// when the body is JSON, its decoded value. No retries, timeouts or backoff
// are applied: transport failures are returned to the caller.
package request
