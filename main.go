// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	internalcmd "github.com/mia-platform/gisutils/internal/cmd"
	"github.com/mia-platform/gisutils/internal/info"
	"github.com/mia-platform/gisutils/internal/logger"
)

var (
	// Version is injected at build time via the Makefile.
	Version = info.Version
	// BuildDate is injected at build time via the Makefile.
	BuildDate = info.BuildDate

	appName      = info.AppName
	versionShort = "Display the " + appName + " version"
)

const (
	appShort = "gisutils is the CLI tool to script GIS portals with logging forwarded to the host application"

	logLevelFlagName      = "log-level"
	logLevelShortFlagName = "v"

	logFileFlagName  = "log-file"
	logFileFlagUsage = `append the log to this file, every "` + logger.DateToken + `" is replaced with the current date and time`

	forwardToHostFlagName  = "forward-to-host"
	forwardToHostFlagUsage = "forward the log lines to the host application instead of the console, the window host writes them to stderr"

	logJSONFlagName  = "log-json"
	logJSONFlagUsage = "write the log lines as JSON"

	versionCmdName = "version"
)

var (
	allLoggerLevels = []string{
		logger.DEBUG.String(),
		logger.INFO.String(),
		logger.WARNING.String(),
		logger.ERROR.String(),
		logger.FATAL.String(),
	}
	logLevelDefaultValue = logger.INFO.String()
	logLevelFlagUsage    = "set the logging level (possible values: " + strings.Join(allLoggerLevels, ", ") + ")"
)

// rootFlags holds the persistent flags shared across the command tree.
type rootFlags struct {
	logLevel      string
	logFile       string
	forwardToHost bool
	logJSON       bool
}

// addFlags registers the persistent CLI flags on cmd.
func (f *rootFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.logLevel, logLevelFlagName, logLevelShortFlagName, logLevelDefaultValue, heredoc.Doc(logLevelFlagUsage))
	flags.StringVar(&f.logFile, logFileFlagName, "", logFileFlagUsage)
	flags.BoolVar(&f.forwardToHost, forwardToHostFlagName, false, forwardToHostFlagUsage)
	flags.BoolVar(&f.logJSON, logJSONFlagName, false, logJSONFlagUsage)
}

// loggingConfig reads the logging configuration from the environment and
// applies the flags explicitly set on cmd.
func (f *rootFlags) loggingConfig(cmd *cobra.Command) (*internalcmd.LoggingConfig, error) {
	config, err := internalcmd.LoadLoggingConfig()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed(logLevelFlagName) {
		config.Level = f.logLevel
	}
	if flags.Changed(logFileFlagName) {
		config.FilePath = f.logFile
	}
	if flags.Changed(forwardToHostFlagName) {
		config.ForwardToHost = f.forwardToHost
	}
	if flags.Changed(logJSONFlagName) {
		config.JSONFormat = f.logJSON
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func main() {
	facade := logger.NewFacade()
	cmd := rootCmd(facade)
	ctx := logger.WithContext(context.Background(), facade)

	exitCode := 0
	if err := cmd.ExecuteContext(ctx); err != nil {
		exitCode = 1
	}

	if err := facade.Reset(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		exitCode = 1
	}

	os.Exit(exitCode)
}

// rootCmd constructs the root Cobra command with shared configuration, the
// facade is configured before any subcommand runs.
func rootCmd(facade *logger.Facade) *cobra.Command {
	flag := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config, err := flag.loggingConfig(cmd)
			if err != nil {
				cmd.PrintErrln(err)
				return err
			}

			if err := facade.Configure(config.LoggerConfig(cmd.ErrOrStderr())); err != nil {
				cmd.PrintErrln(err)
				return err
			}

			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(err)
		_ = c.Usage()
		return err
	})

	flag.addFlags(cmd)
	cmd.AddCommand(
		internalcmd.RequestCmd(),
		internalcmd.SignInCmd(),
		internalcmd.DateCmd(),
		versionCmd(),
	)

	return cmd
}

// versionCmd constructs the Cobra command that prints version information.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   versionCmdName,
		Short: heredoc.Doc(versionShort),

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.NoArgs(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString(Version, BuildDate, runtime.Version()))
		},
	}
}

// versionString formats the version metadata for display.
func versionString(version, buildDate, runtimeVersion string) string {
	outputString := version
	if buildDate != "" {
		outputString += " (" + buildDate + ")"
	}

	return outputString + ", Go Version: " + runtimeVersion
}
