package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/ui/components"
	"github.com/abhisek/examprep/internal/ui/theme"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change the learner identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p := a.State.Snapshot()
			status := "guest"
			if p.IsLoggedIn {
				status = "logged in"
			}
			fmt.Print(components.KeyValue([][2]string{
				{"Name", p.Username},
				{"Email", p.Email},
				{"Status", status},
			}))
			return nil
		})
	},
}

var profileLoginCmd = &cobra.Command{
	Use:   "login <name>",
	Short: "Set the learner name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var loginErr error
			_, err := a.State.Update(ctx, func(p *profile.Profile) bool {
				loginErr = profile.Login(p, args[0], email)
				return loginErr == nil
			})
			if loginErr != nil {
				return loginErr
			}
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s.\n", a.State.Snapshot().Username)
			return nil
		})
	},
}

var profileLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Return to the guest identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			_, err := a.State.Update(ctx, profile.Logout)
			if err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		})
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and cached lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Println(theme.Incorrect.Render("This erases XP, scores, mistakes, daily progress and cached lessons."))
			fmt.Println("Run again with --yes to confirm.")
			return nil
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Reset(ctx); err != nil {
				return err
			}
			fmt.Println("Progress reset.")
			return nil
		})
	},
}

func init() {
	profileLoginCmd.Flags().String("email", "", "Email address")
	profileResetCmd.Flags().Bool("yes", false, "Confirm the reset")

	profileCmd.AddCommand(profileLoginCmd)
	profileCmd.AddCommand(profileLogoutCmd)
	profileCmd.AddCommand(profileResetCmd)
}
