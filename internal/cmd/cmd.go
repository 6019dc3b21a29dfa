// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	requestCmdUsage = "request URL"
	requestCmdShort = "send a request to a portal REST endpoint"
	requestCmdLong  = `Send a GET or POST request to a URL and print the response.
	Parameters are always sent in the query string. The JSON response is printed
	indented, any other response is printed as is.

	With --session the request is authenticated with a portal session, either
	from the profile of --username or from the active session configured in the
	environment, and a response containing an "error" key is logged.

	Only the response is printed on stdout, log lines go to stderr also when
	they are forwarded to the window host.`

	requestCmdExample = `# Query a public feature service
	gisutils request https://services.arcgis.com/x/arcgis/rest/services/roads/FeatureServer/0/query \
		--method GET --param where=1=1 --param outFields=*

	# Read the portal description as the jdoe user
	gisutils request https://www.arcgis.com/sharing/rest/portals/self --method GET --session --username jdoe`

	signInCmdUsage = "signin"
	signInCmdShort = "sign in to a portal and print the session details"
	signInCmdLong  = `Sign in to a portal and print the portal hostname and the signed in user.
	With --username the login of the "arcgis_<username>" profile is used; a missing
	profile is created after prompting for the password. Without it the active
	session is read from ARCGIS_TOKEN or from ARCGIS_CLIENT_ID and
	ARCGIS_CLIENT_SECRET.`

	signInCmdExample = `# Sign in with the jdoe profile on an enterprise portal
	gisutils signin --username jdoe --portal https://gis.example.com/portal`

	dateCmdUsage = "date"
	dateCmdShort = "convert dates to timestamps and back"

	toTimestampCmdUsage   = "to-timestamp DATE"
	toTimestampCmdShort   = "convert a date string to a timestamp"
	toTimestampCmdExample = `# Milliseconds timestamp of a date
	gisutils date to-timestamp 2022/01/12

	# Seconds timestamp of a date and time
	gisutils date to-timestamp "12-01-2022 13:45" --format "%d-%m-%Y %H:%M" --seconds`

	toStringCmdUsage   = "to-string TIMESTAMP"
	toStringCmdShort   = "convert a seconds or milliseconds timestamp to a date string"
	toStringCmdExample = `# Date of a milliseconds timestamp
	gisutils date to-string 1652800000000`
)

// RequestCmd returns the "request" cli command.
func RequestCmd() *cobra.Command {
	flags := &requestFlags{}
	cmd := &cobra.Command{
		Use:     requestCmdUsage,
		Short:   heredoc.Doc(requestCmdShort),
		Long:    heredoc.Doc(requestCmdLong),
		Example: heredoc.Doc(requestCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// SignInCmd returns the "signin" cli command.
func SignInCmd() *cobra.Command {
	flags := &signInFlags{}
	cmd := &cobra.Command{
		Use:     signInCmdUsage,
		Short:   heredoc.Doc(signInCmdShort),
		Long:    heredoc.Doc(signInCmdLong),
		Example: heredoc.Doc(signInCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions(cmd)
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// DateCmd returns the "date" cli command grouping the date conversions.
func DateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   dateCmdUsage,
		Short: heredoc.Doc(dateCmdShort),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
	}

	cmd.AddCommand(
		toTimestampCmd(),
		toStringCmd(),
	)
	return cmd
}

func toTimestampCmd() *cobra.Command {
	flags := &toTimestampFlags{}
	cmd := &cobra.Command{
		Use:     toTimestampCmdUsage,
		Short:   heredoc.Doc(toTimestampCmdShort),
		Example: heredoc.Doc(toTimestampCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

func toStringCmd() *cobra.Command {
	flags := &toStringFlags{}
	cmd := &cobra.Command{
		Use:     toStringCmdUsage,
		Short:   heredoc.Doc(toStringCmdShort),
		Example: heredoc.Doc(toStringCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
