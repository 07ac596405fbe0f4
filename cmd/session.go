package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"housing-manager/auth"
	"housing-manager/storage"
)

func init() {
	loginCmd.Flags().StringVar(&loginCredential, "credential", "", "Google ID token from the sign-in flow")
	_ = loginCmd.MarkFlagRequired("credential")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

var loginCredential string

func sessionStore() *storage.FileSessionStore {
	return storage.NewFileSessionStore(cfg.SessionPath)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Signs in with a Google credential.",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := auth.HandleCredential(sessionStore(), loginCredential)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Signs out the current user.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.SignOut(sessionStore()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the signed-in user.",
	Run: func(cmd *cobra.Command, args []string) {
		user := auth.CurrentUser(sessionStore())
		if user == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
	},
}
