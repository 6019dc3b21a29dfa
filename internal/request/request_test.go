// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package request

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/gisutils/internal/host"
	"github.com/mia-platform/gisutils/internal/logger"
)

type fakeSession struct {
	client *http.Client
}

func (s *fakeSession) Client() *http.Client { return s.client }

type capturedRequest struct {
	method string
	query  url.Values
	header http.Header
}

func newTestServer(t *testing.T, contentType, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := new(capturedRequest)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.query = r.URL.Query()
		captured.header = r.Header.Clone()

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func TestSend(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		method         string
		contentType    string
		body           string
		expectedMethod string
		expectedData   any
	}{
		"GET with json body": {
			method:         http.MethodGet,
			contentType:    "application/json",
			body:           `{"count": 2, "items": ["a", "b"]}`,
			expectedMethod: http.MethodGet,
			expectedData: map[string]any{
				"count": float64(2),
				"items": []any{"a", "b"},
			},
		},
		"POST with text body": {
			method:         http.MethodPost,
			contentType:    "text/plain",
			body:           "plain answer",
			expectedMethod: http.MethodPost,
		},
		"unknown method falls back to POST": {
			method:         "PATCH",
			contentType:    "application/json",
			body:           `[1, 2]`,
			expectedMethod: http.MethodPost,
			expectedData:   []any{float64(1), float64(2)},
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			server, captured := newTestServer(t, test.contentType, test.body)

			params := url.Values{"where": []string{"1=1"}}
			headers := http.Header{"X-Custom": []string{"custom"}}
			response, err := Send(t.Context(), server.Client(), test.method, server.URL+"/query?existing=yes", params, headers)
			require.NoError(t, err)

			assert.Equal(t, test.expectedMethod, captured.method)
			assert.Equal(t, "1=1", captured.query.Get("where"))
			assert.Equal(t, "yes", captured.query.Get("existing"))
			assert.Equal(t, "custom", captured.header.Get("X-Custom"))
			assert.Equal(t, "application/json", captured.header.Get("Accept"))
			assert.Equal(t, userAgentString(), captured.header.Get("User-Agent"))
			assert.NotEmpty(t, captured.header.Get(requestIDHeaderName))

			assert.Equal(t, http.StatusOK, response.StatusCode)
			assert.Equal(t, test.body, response.Text)
			assert.Equal(t, test.expectedData, response.Data)
			if test.expectedData == nil {
				assert.Equal(t, test.body, response.Value())
			} else {
				assert.Equal(t, test.expectedData, response.Value())
			}
		})
	}
}

func TestSendKeepsCallerRequestID(t *testing.T) {
	t.Parallel()

	server, captured := newTestServer(t, "application/json", `{}`)
	headers := http.Header{requestIDHeaderName: []string{"my-id"}}

	_, err := Send(t.Context(), server.Client(), http.MethodGet, server.URL, nil, headers)
	require.NoError(t, err)
	assert.Equal(t, "my-id", captured.header.Get(requestIDHeaderName))
	assert.Empty(t, captured.query)
}

func TestSendTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	response, err := Send(t.Context(), nil, http.MethodGet, serverURL, nil, nil)
	require.Error(t, err)
	assert.Nil(t, response)

	var requestErr *Error
	require.ErrorAs(t, err, &requestErr)
	assert.Contains(t, err.Error(), "request: ")
}

func TestSendInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := Send(t.Context(), nil, http.MethodGet, "://invalid-url", nil, nil)
	var requestErr *Error
	require.ErrorAs(t, err, &requestErr)
}

func TestSendWithSession(t *testing.T) {
	t.Parallel()

	t.Run("adds json format and returns the response", func(t *testing.T) {
		t.Parallel()

		server, captured := newTestServer(t, "application/json", `{"currentVersion": 11.1}`)
		session := &fakeSession{client: server.Client()}

		response, err := SendWithSession(t.Context(), session, http.MethodGet, server.URL, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, responseFormatJSON, captured.query.Get(responseFormatParam))

		object, ok := response.Object()
		require.True(t, ok)
		assert.InDelta(t, 11.1, object["currentVersion"], 0.001)
	})

	t.Run("keeps an explicit format", func(t *testing.T) {
		t.Parallel()

		server, captured := newTestServer(t, "application/json", `{}`)
		session := &fakeSession{client: server.Client()}
		params := url.Values{responseFormatParam: []string{"pjson"}}

		_, err := SendWithSession(t.Context(), session, http.MethodPost, server.URL, params, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"pjson"}, captured.query[responseFormatParam])
		assert.Equal(t, []string{"pjson"}, params[responseFormatParam])
	})

	t.Run("error key is logged without interrupting the response", func(t *testing.T) {
		t.Parallel()

		server, _ := newTestServer(t, "application/json", `{"error": {"code": 498, "message": "Invalid token."}}`)
		session := &fakeSession{client: server.Client()}

		errorsWindow := new(bytes.Buffer)
		facade := logger.NewFacade()
		require.NoError(t, facade.Configure(logger.Config{
			Level:         logger.INFO,
			ForwardToHost: true,
			Host:          host.NewWindow(nil, nil, errorsWindow),
		}))
		ctx := logger.WithContext(t.Context(), facade)

		response, err := SendWithSession(ctx, session, http.MethodGet, server.URL, nil, nil)
		require.NoError(t, err)
		object, ok := response.Object()
		require.True(t, ok)
		assert.Contains(t, object, "error")
		assert.Contains(t, errorsWindow.String(), "ERROR - error in response")
		assert.Contains(t, errorsWindow.String(), "Invalid token.")
	})
}

func TestError(t *testing.T) {
	t.Parallel()

	rootCause := errors.New("root cause")
	err := handleError(rootCause)
	assert.Equal(t, "request: root cause", err.Error())
	assert.Equal(t, rootCause, errors.Unwrap(err))
	assert.ErrorIs(t, err, &Error{err: errors.New("root cause")})
	assert.NotErrorIs(t, err, &Error{err: errors.New("other")})
}
