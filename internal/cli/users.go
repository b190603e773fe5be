package cli

import (
	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Look up users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runUsersList),
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runUsersGet),
}

var usersGetByEmailCmd = &cobra.Command{
	Use:   "get-by-email <email>",
	Short: "Look up a user by email address",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runUsersGetByEmail),
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersGetByEmailCmd)
}

func runUsersList(app *appctx.App, cmd *cobra.Command, args []string) error {
	users, err := app.Client.GetUsers(cmd.Context())
	if err != nil {
		return err
	}
	return app.Out.Render(users)
}

func runUsersGet(app *appctx.App, cmd *cobra.Command, args []string) error {
	id, err := idArg("user", args[0])
	if err != nil {
		return err
	}
	user, err := app.Client.GetUser(cmd.Context(), id)
	if err != nil {
		return err
	}
	return app.Out.Render(user)
}

func runUsersGetByEmail(app *appctx.App, cmd *cobra.Command, args []string) error {
	user, err := app.Client.GetUserByEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return app.Out.Render(user)
}
