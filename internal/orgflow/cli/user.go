package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/store/drivers/sqlite"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var req service.SignupRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create an account directly in the database.

Unlike public signup this may create admins at any time, so use it to
provision the first administrator of a fresh install.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigratedStore(rootOpts, cmd, func(st *sqlite.Store, out *output) error {
				svc := &service.AuthService{Store: st, AllowAdminSignup: true}
				u, err := svc.Signup(cmd.Context(), req)
				if err != nil {
					return out.Fail(err)
				}
				info := orgsdk.UserInfo{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
				return out.Success(info, fmt.Sprintf("created %s <%s> as %s (%s)", u.Username, u.Email, u.Role, u.ID))
			})
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.Role, "role", "member", "admin or member")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
