package cli

import (
	"errors"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
)

var userCreateFlags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{
		Name:  usernameFlag,
		Value: "",
		Usage: "Username for the new account (required)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Password for the new account (required)",
	},
}

func newUserCommand(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username := userCreateFlags[usernameFlag].GetString()
			password := userCreateFlags[passwordFlag].GetString()
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			a, err := bootstrap(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			sessions, err := a.sessionManager(nil)
			if err != nil {
				return err
			}
			u, err := sessions.Register(cmd.Context(), username, password, password)
			if err != nil {
				return fmt.Errorf("create user %q: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %q created with id %d\n", u.Username, u.ID)
			return nil
		},
	}
	cobraflags.RegisterMap(create, userCreateFlags)

	cmd.AddCommand(create)
	return cmd
}
