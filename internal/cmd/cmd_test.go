// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/gisutils/internal/dates"
)

func TestCmds(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		cmd                  *cobra.Command
		args                 []string
		expectedError        error
		expectedErrorMessage string
		expectedUsage        bool
	}{
		"request command with no arguments returns no error and print usage": {
			cmd:           RequestCmd(),
			args:          []string{},
			expectedUsage: true,
		},
		"request command with invalid param returns error and usage": {
			cmd:                  RequestCmd(),
			args:                 []string{"https://example.com", "--" + paramFlagName, "where"},
			expectedError:        errInvalidKeyValue,
			expectedErrorMessage: errInvalidKeyValue.Error() + ": \"where\"\n",
			expectedUsage:        true,
		},
		"request command with invalid header returns error and usage": {
			cmd:                  RequestCmd(),
			args:                 []string{"https://example.com", "--" + headerFlagName, "=value"},
			expectedError:        errInvalidKeyValue,
			expectedErrorMessage: errInvalidKeyValue.Error() + ": \"=value\"\n",
			expectedUsage:        true,
		},
		"request command with relative url returns error no usage": {
			cmd:                  RequestCmd(),
			args:                 []string{"/sharing/rest"},
			expectedError:        errInvalidURL,
			expectedErrorMessage: errInvalidURL.Error() + " \"/sharing/rest\": an absolute http or https URL is required\n",
		},
		"date to-timestamp with no arguments returns no error and print usage": {
			cmd:           DateCmd(),
			args:          []string{"to-timestamp"},
			expectedUsage: true,
		},
		"date to-string with no arguments returns no error and print usage": {
			cmd:           DateCmd(),
			args:          []string{"to-string"},
			expectedUsage: true,
		},
		"date to-string with invalid timestamp returns error and usage": {
			cmd:                  DateCmd(),
			args:                 []string{"to-string", "yesterday"},
			expectedError:        errInvalidTimestamp,
			expectedErrorMessage: errInvalidTimestamp.Error() + " \"yesterday\"\n",
			expectedUsage:        true,
		},
		"date to-timestamp with mismatching format returns error no usage": {
			cmd:           DateCmd(),
			args:          []string{"to-timestamp", "12-01-2022"},
			expectedError: dates.ErrParsing,
		},
		"date to-timestamp with unsupported directive returns error no usage": {
			cmd:           DateCmd(),
			args:          []string{"to-timestamp", "2022", "--" + formatFlagName, "%Q"},
			expectedError: dates.ErrUnsupportedDirective,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			errBuffer := new(bytes.Buffer)
			outBuffer := new(bytes.Buffer)
			test.cmd.SetOut(outBuffer)
			test.cmd.SetErr(errBuffer)
			test.cmd.SetUsageTemplate("usage string")
			test.cmd.SetArgs(test.args)

			err := test.cmd.ExecuteContext(t.Context())
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				if test.expectedErrorMessage != "" {
					assert.Equal(t, test.expectedErrorMessage, errBuffer.String())
				} else {
					assert.NotEmpty(t, errBuffer.String())
				}
			} else {
				assert.NoError(t, err)
				assert.Empty(t, errBuffer)
			}

			if test.expectedUsage {
				assert.Equal(t, "usage string", outBuffer.String())
			} else {
				assert.Empty(t, outBuffer)
			}
		})
	}
}

func TestDateCmdOutput(t *testing.T) {
	t.Parallel()

	expectedMilliseconds := time.Date(2022, time.January, 12, 0, 0, 0, 0, time.Local).UnixMilli()

	testCases := map[string]struct {
		args     []string
		expected string
	}{
		"date to milliseconds timestamp": {
			args:     []string{"to-timestamp", "2022/01/12"},
			expected: strconv.FormatInt(expectedMilliseconds, 10) + "\n",
		},
		"date to seconds timestamp": {
			args:     []string{"to-timestamp", "12-01-2022", "--" + formatFlagName, "%d-%m-%Y", "--" + secondsFlagName},
			expected: strconv.FormatInt(expectedMilliseconds/1000, 10) + "\n",
		},
		"milliseconds timestamp to date": {
			args:     []string{"to-string", strconv.FormatInt(expectedMilliseconds, 10)},
			expected: "2022/01/12\n",
		},
		"seconds timestamp to custom format": {
			args:     []string{"to-string", strconv.FormatInt(expectedMilliseconds/1000, 10), "-" + formatFlagShort, "%d %B %Y"},
			expected: "12 January 2022\n",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			outBuffer := new(bytes.Buffer)
			cmd := DateCmd()
			cmd.SetOut(outBuffer)
			cmd.SetArgs(test.args)

			require.NoError(t, cmd.ExecuteContext(t.Context()))
			assert.Equal(t, test.expected, outBuffer.String())
		})
	}
}

func TestRequestCmdOutput(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("f") == "text" {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("plain answer"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"method": "` + r.Method + `", "where": "` + r.URL.Query().Get("where") + `"}`))
	}))
	t.Cleanup(server.Close)

	testCases := map[string]struct {
		args     []string
		expected string
	}{
		"json response is indented": {
			args:     []string{server.URL, "--" + paramFlagName, "where=1=1"},
			expected: "{\n\t\"method\": \"GET\",\n\t\"where\": \"1=1\"\n}\n",
		},
		"method other than GET is sent as POST": {
			args:     []string{server.URL, "-" + methodFlagShort, "delete"},
			expected: "{\n\t\"method\": \"POST\",\n\t\"where\": \"\"\n}\n",
		},
		"text response is printed as is": {
			args:     []string{server.URL, "-" + paramFlagShort, "f=text"},
			expected: "plain answer\n",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			outBuffer := new(bytes.Buffer)
			cmd := RequestCmd()
			cmd.SetOut(outBuffer)
			cmd.SetArgs(test.args)

			require.NoError(t, cmd.ExecuteContext(t.Context()))
			assert.Equal(t, test.expected, outBuffer.String())
		})
	}
}
