package commands

import (
	"fmt"

	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/spf13/cobra"
)

var demote bool

var promoteCmd = &cobra.Command{
	Use:   "promote-admin EMAIL",
	Short: "Grant (or with --demote revoke) the admin role",
	Long: `Grant the admin role to the account registered with EMAIL.

Examples:
  foodctl promote-admin ana@example.com
  foodctl promote-admin ana@example.com --demote`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		role := models.RoleAdmin
		if demote {
			role = models.RoleUser
		}
		if err := repositories.NewUserRepository(db).UpdateRole(cmd.Context(), args[0], role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
		return nil
	},
}

func init() {
	promoteCmd.Flags().BoolVar(&demote, "demote", false, "Revoke the admin role instead")
}
