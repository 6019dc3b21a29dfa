// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package auth signs scripts in to a GIS portal.
//
// Two sign-in modes exist. With a username the credentials come from a named
// profile ("arcgis_<username>") stored on disk; a missing profile is created
// after prompting for the password. Without a username the active session is
// read from the environment, either as a ready token or as OAuth2 client
// credentials. In both modes the returned Session wraps an http.Client that
// adds and refreshes the portal token on every request.
package auth
