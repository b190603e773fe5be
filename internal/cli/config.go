package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage railctl configuration",
	Long: `Manages the profile store at ~/.config/railctl/config.yaml. Profiles
hold the connection settings per instance; environment variables and
flags override them at run time.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a connection profile",
	Long: `Writes a profile into the config file, creating the file with
owner-only permissions if needed. The first profile written becomes the
default; --default promotes a later one.

Examples:
  railctl config init --url https://qa.example.com --email bot@example.com --password $KEY
  railctl config init --name staging --url https://staging.example.com \
      --email bot@example.com --password $KEY --default`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.Offline(), runConfigShow),
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var (
	configInitName     string
	configInitURL      string
	configInitEmail    string
	configInitPassword string
	configInitTimeout  int
	configInitInsecure bool
	configInitDefault  bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().StringVar(&configInitName, "name", "default", "Profile name")
	configInitCmd.Flags().StringVar(&configInitURL, "url", "", "TestRail base URL")
	configInitCmd.Flags().StringVar(&configInitEmail, "email", "", "Account email")
	configInitCmd.Flags().StringVar(&configInitPassword, "password", "", "Password or API key (empty to rely on TESTRAIL_PASSWORD)")
	configInitCmd.Flags().IntVar(&configInitTimeout, "timeout", 0, "HTTP timeout in seconds")
	configInitCmd.Flags().BoolVar(&configInitInsecure, "insecure", false, "Skip TLS certificate verification")
	configInitCmd.Flags().BoolVar(&configInitDefault, "default", false, "Make this the default profile")
	configInitCmd.MarkFlagRequired("url")
	configInitCmd.MarkFlagRequired("email")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}

	file, err := config.LoadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		file = &config.File{}
	}
	if file.Profiles == nil {
		file.Profiles = map[string]config.Profile{}
	}

	file.Profiles[configInitName] = config.Profile{
		URL:      configInitURL,
		Email:    configInitEmail,
		Password: configInitPassword,
		Timeout:  configInitTimeout,
		Insecure: configInitInsecure,
	}
	if file.Default == "" || configInitDefault {
		file.Default = configInitName
	}

	if err := file.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote profile %q to %s\n", configInitName, path)
	return nil
}

func runConfigShow(app *appctx.App, cmd *cobra.Command, args []string) error {
	cfg := app.Config
	password := ""
	if cfg.Password != "" {
		password = "********"
	}
	resolved := struct {
		Profile  string `json:"profile,omitempty"`
		URL      string `json:"url"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Timeout  int    `json:"timeout"`
		Insecure bool   `json:"insecure"`
		Output   string `json:"output"`
		Path     string `json:"path,omitempty"`
	}{
		Profile:  cfg.Profile,
		URL:      cfg.URL,
		Email:    cfg.Email,
		Password: password,
		Timeout:  cfg.Timeout,
		Insecure: cfg.Insecure,
		Output:   cfg.Output,
		Path:     cfg.Path,
	}
	return app.Out.Render(resolved)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
