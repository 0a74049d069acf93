package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beij-labs/beijshop/core"
)

// NewLoginCmd creates the "login" subcommand.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username-or-email> <password>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(2),
		RunE:  runLogin,
	}

	cmd.Flags().Bool("remember", false, "Keep the session across restarts")
	cmd.Flags().Bool("admin", false, "Log in against the admin endpoint")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	remember, _ := cmd.Flags().GetBool("remember")
	admin, _ := cmd.Flags().GetBool("admin")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	var resp core.LoginResponse
	if admin {
		resp, err = app.Client.LoginAdmin(ctx, args[0], args[1], remember)
	} else {
		resp, err = app.Client.Login(ctx, args[0], args[1], remember)
	}
	if err != nil {
		return apiExitError(err)
	}

	app.Session.Login(ctx, resp.User, resp.Token, remember)
	fmt.Fprintf(out, "Logged in as %s\n", resp.User.Username)
	return nil
}

// NewLogoutCmd creates the "logout" subcommand.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			// Clears local state even when the server call fails.
			app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// NewRegisterCmd creates the "register" subcommand.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username> <email> <password>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(3),
		RunE:  runRegister,
	}

	cmd.Flags().String("admin-secret", "", "Register an admin account using this shared secret")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	adminSecret, _ := cmd.Flags().GetString("admin-secret")
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	var user core.User
	if adminSecret != "" {
		user, err = app.Client.RegisterAdmin(ctx, args[0], args[1], args[2], adminSecret)
	} else {
		user, err = app.Client.Register(ctx, args[0], args[1], args[2])
	}
	if err != nil {
		return apiExitError(err)
	}

	fmt.Fprintf(out, "Registered %s (%s)\n", user.Username, user.UserID)
	return nil
}

// NewWhoamiCmd creates the "whoami" subcommand.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := requireUser(app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", user.Username, user.Email)
			if user.IsAdmin {
				fmt.Fprintln(out, "Role: admin")
			}
			saved := app.Session.SavedItemIDs()
			fmt.Fprintf(out, "%d saved %s\n", len(saved), pluralize("item", len(saved)))
			return nil
		},
	}
}

// NewProfileCmd creates the "profile" subcommand.
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the account profile",
		Args:  cobra.NoArgs,
		RunE:  runProfile,
	}

	cmd.Flags().String("username", "", "New username")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("password", "", "New password")

	return cmd
}

func runProfile(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	app, cleanup, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := requireUser(app)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	updates := profileUpdateFromFlags(cmd)
	if updates == (core.ProfileUpdate{}) {
		profile, err := app.Client.GetUserProfile(ctx, user.UserID)
		if err != nil {
			return apiExitError(err)
		}
		fmt.Fprintf(out, "%s <%s>\n", profile.Username, profile.Email)
		return nil
	}

	updated, err := app.Client.UpdateUserProfile(ctx, user.UserID, updates)
	if err != nil {
		return apiExitError(err)
	}
	app.Session.UpdateUser(ctx, updated)
	fmt.Fprintf(out, "Profile updated: %s <%s>\n", updated.Username, updated.Email)
	return nil
}

func profileUpdateFromFlags(cmd *cobra.Command) core.ProfileUpdate {
	var updates core.ProfileUpdate
	if v, _ := cmd.Flags().GetString("username"); v != "" {
		updates.Username = &v
	}
	if v, _ := cmd.Flags().GetString("email"); v != "" {
		updates.Email = &v
	}
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		updates.Password = &v
	}
	return updates
}
