// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/mia-platform/gisutils/internal/info"
	"github.com/mia-platform/gisutils/internal/logger"
)

const (
	loggerName = "gisutils:request"

	requestIDHeaderName = "X-Request-Id"
	responseFormatParam = "f"
	responseFormatJSON  = "json"
	responseErrorKey    = "error"
)

// Session is an authenticated portal session.
type Session interface {
	// Client returns the HTTP client that authenticates every request.
	Client() *http.Client
}

// Response holds the outcome of a request.
type Response struct {
	StatusCode int
	Header     http.Header
	// Data is the decoded body when it is valid JSON, nil otherwise.
	Data any
	// Text is the raw body.
	Text string
}

// Object returns Data when the body is a JSON object.
func (r *Response) Object() (map[string]any, bool) {
	object, ok := r.Data.(map[string]any)
	return object, ok
}

// Value returns Data when the body was decoded, otherwise the raw text.
func (r *Response) Value() any {
	if r.Data != nil {
		return r.Data
	}
	return r.Text
}

// Send issues a GET request when method is GET and a POST otherwise. params
// are always encoded in the query string. A nil client uses http.DefaultClient.
func Send(ctx context.Context, client *http.Client, method, rawURL string, params url.Values, headers http.Header) (*Response, error) {
	return do(ctx, client, method, rawURL, params, headers)
}

// SendWithSession issues the request with the session client asking the
// portal for a JSON response. A top level "error" key in the response is
// logged, the response is still returned. A session without client uses
// http.DefaultClient.
func SendWithSession(ctx context.Context, session Session, method, rawURL string, params url.Values, headers http.Header) (*Response, error) {
	sessionParams := url.Values{}
	for key, values := range params {
		sessionParams[key] = append([]string(nil), values...)
	}
	if !sessionParams.Has(responseFormatParam) {
		sessionParams.Set(responseFormatParam, responseFormatJSON)
	}

	response, err := do(ctx, session.Client(), method, rawURL, sessionParams, headers)
	if err != nil {
		return nil, err
	}

	if object, ok := response.Object(); ok {
		if responseError, found := object[responseErrorKey]; found {
			logger.FromContext(ctx).WithName(loggerName).Error("error in response", "error", responseError)
		}
	}

	return response, nil
}

func do(ctx context.Context, client *http.Client, method, rawURL string, params url.Values, headers http.Header) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	requestURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, handleError(err)
	}

	if len(params) > 0 {
		query := requestURL.Query()
		for key, values := range params {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		requestURL.RawQuery = query.Encode()
	}

	if method != http.MethodGet {
		method = http.MethodPost
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), nil)
	if err != nil {
		return nil, handleError(err)
	}

	for key, values := range headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	setDefaultHeader(request.Header, "User-Agent", userAgentString())
	setDefaultHeader(request.Header, "Accept", "application/json")

	requestID := request.Header.Get(requestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
		request.Header.Set(requestIDHeaderName, requestID)
	}

	log := logger.FromContext(ctx).WithName(loggerName)
	log.Debug("sending request", "method", method, "url", requestURL.Redacted(), "requestId", requestID)

	resp, err := client.Do(request)
	if err != nil {
		return nil, handleError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, handleError(err)
	}
	log.Debug("request completed", "requestId", requestID, "statusCode", resp.StatusCode, "bytes", len(body))

	response := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Text:       string(body),
	}

	if len(bytes.TrimSpace(body)) > 0 {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			response.Data = data
		}
	}

	return response, nil
}

func setDefaultHeader(header http.Header, key, value string) {
	if header.Get(key) == "" {
		header.Set(key, value)
	}
}

// userAgentString builds the User-Agent header sent to the portal.
func userAgentString() string {
	return info.AppName + "/" + info.Version
}
