// Package appctx provides a shared bootstrap helper for CLI commands.
// It centralizes config loading, output selection and API client
// construction to reduce boilerplate across commands.
package appctx

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"railctl/internal/config"
	"railctl/internal/parse"
	"railctl/internal/render"
	"railctl/internal/testrail"
)

// App holds the shared application context for commands.
type App struct {
	// Config is the resolved configuration
	Config *config.Config

	// Client is the API client (nil if NeedsClient is false)
	Client *testrail.Client

	// Out renders command output in the selected format
	Out *render.Renderer

	// Porcelain is true when machine-readable output was requested
	Porcelain bool
}

// Options configures the bootstrap behavior.
type Options struct {
	// NeedsClient indicates whether to construct the API client.
	// Defaults to true.
	NeedsClient bool
}

// DefaultOptions returns default options (client required).
func DefaultOptions() Options {
	return Options{NeedsClient: true}
}

// Offline returns options for commands that never call the API.
func Offline() Options {
	return Options{NeedsClient: false}
}

// RunFunc is the signature for command run functions.
type RunFunc func(app *App, cmd *cobra.Command, args []string) error

// WithApp wraps a command's run function with shared bootstrap logic.
// It loads config, applies global flags, and builds the API client
// when the command needs one.
func WithApp(opts Options, fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := Bootstrap(cmd, opts)
		if err != nil {
			return err
		}
		return fn(app, cmd, args)
	}
}

// Bootstrap initializes the App according to the given options.
// Configuration is resolved from the profile file and environment, then
// the global connection and output flags are applied on top.
func Bootstrap(cmd *cobra.Command, opts Options) (*App, error) {
	cfg, err := config.Load(flagString(cmd, "profile"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v := flagString(cmd, "url"); v != "" {
		cfg.URL = v
	}
	if v := flagString(cmd, "email"); v != "" {
		cfg.Email = v
	}
	if v := flagString(cmd, "password"); v != "" {
		cfg.Password = v
	}
	if f := cmd.Flag("timeout"); f != nil && f.Changed {
		cfg.Timeout = flagInt(cmd, "timeout")
	}
	if f := cmd.Flag("insecure"); f != nil && f.Changed {
		cfg.Insecure = true
	}

	app := &App{Config: cfg}

	format := cfg.Output
	if f := cmd.Flag("output"); f != nil && f.Changed {
		format = f.Value.String()
	}
	parsedFormat, err := render.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	app.Porcelain = flagBool(cmd, "porcelain")
	app.Out = render.NewRenderer(cmd.OutOrStdout(), render.Options{
		Format:    parsedFormat,
		Porcelain: app.Porcelain,
		Fields:    parse.ParseList(flagString(cmd, "fields")),
	})

	if opts.NeedsClient {
		client, err := testrail.NewClient(testrail.Config{
			URL:      cfg.URL,
			Email:    cfg.Email,
			Password: cfg.Password,
			Timeout:  time.Duration(cfg.Timeout) * time.Second,
			Insecure: cfg.Insecure,
			Verbose:  flagBool(cmd, "verbose"),
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set TESTRAIL_URL, TESTRAIL_EMAIL and TESTRAIL_PASSWORD, or run 'railctl config init')", err)
		}
		app.Client = client
	}

	return app, nil
}

func flagString(cmd *cobra.Command, name string) string {
	f := cmd.Flag(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

func flagBool(cmd *cobra.Command, name string) bool {
	return flagString(cmd, name) == "true"
}

func flagInt(cmd *cobra.Command, name string) int {
	n, err := strconv.Atoi(flagString(cmd, name))
	if err != nil {
		return 0
	}
	return n
}
