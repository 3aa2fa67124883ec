package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/ebuild/internal/adapters/logging"
	"github.com/felixgeelhaar/ebuild/internal/app"
	"github.com/felixgeelhaar/ebuild/internal/domain/config"
	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// Viper keys. Each is also readable from EBUILD_<KEY> with dashes replaced
// by underscores, and from .ebuild.yaml.
const (
	keyMakeConf = "make-conf"
	keyLogLevel = "log-level"
	keyLogJSON  = "log-json"
	keyVerbose  = "verbose"
	keyUse      = "use"
	keyMakeOpts = "makeopts"
	keyRoot     = "root"
	keyJobs     = "jobs"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ebuild",
	Short: "Run package build phases from a recipe",
	Long: `ebuild builds a single package from a declarative recipe.

It constructs an isolated build environment, resolves every lifecycle phase
against the package, its inherited build classes and the built-in defaults,
and runs them in order:
  pretend → setup → fetch → unpack → prepare → configure → compile → test → install → clean`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel a running build;
// its cleanup phases still run before Execute returns.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "CLI config file (default: .ebuild.yaml, or EBUILD_CONFIG_FILE)")
	rootCmd.PersistentFlags().String(keyMakeConf, "", "make.conf to load (default: first found in the config directories)")
	rootCmd.PersistentFlags().String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool(keyLogJSON, false, "log as JSON")
	rootCmd.PersistentFlags().BoolP(keyVerbose, "v", false, "verbose error output")

	for _, key := range []string{keyMakeConf, keyLogLevel, keyLogJSON, keyVerbose} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}

	_ = rootCmd.RegisterFlagCompletionFunc(keyLogLevel, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the CLI config file and binds EBUILD_* variables. A
// missing default config file is not an error.
func initConfig() {
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case os.Getenv("EBUILD_CONFIG_FILE") != "":
		viper.SetConfigFile(os.Getenv("EBUILD_CONFIG_FILE"))
	default:
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ebuild")
	}

	viper.SetEnvPrefix("EBUILD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// bindFlags binds a command's local flags into viper.
func bindFlags(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(key))
	}
}

// newLogger builds the console logger selected by the log flags.
func newLogger(w io.Writer) (ports.Logger, error) {
	level, err := ports.ParseLevel(viper.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}
	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithJSONFormat(viper.GetBool(keyLogJSON)),
	), nil
}

// newBuilder creates an application builder streaming phase output to the
// command's writers.
func newBuilder(cmd *cobra.Command) (*app.Builder, error) {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return app.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).WithLogger(logger), nil
}

// request assembles a build request for recipePath from the bound flags.
func request(recipePath string) app.Request {
	return app.Request{
		RecipePath: recipePath,
		ConfigPath: viper.GetString(keyMakeConf),
		RootDir:    viper.GetString(keyRoot),
		Use:        splitUse(viper.GetStringSlice(keyUse)),
		MakeOpts:   viper.GetString(keyMakeOpts),
		Jobs:       viper.GetInt(keyJobs),
		SearchPath: os.Getenv("PATH"),
	}
}

// splitUse accepts both repeated --use flags and a single
// whitespace-separated EBUILD_USE value.
func splitUse(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Fields(strings.ReplaceAll(v, ",", " "))...)
	}
	return out
}

// codedError is implemented by the domain error types.
type codedError interface {
	error
	Format() string
}

// formatError returns a user-friendly error message. Verbose output adds the
// underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if viper.GetBool(keyVerbose) && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}

	var coded codedError
	if errors.As(err, &coded) {
		if viper.GetBool(keyVerbose) {
			return coded.Format()
		}
		return coded.Error()
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
