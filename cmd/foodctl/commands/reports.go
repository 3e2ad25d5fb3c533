package commands

import (
	"fmt"
	"os"

	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/spf13/cobra"
)

var exportReportsCmd = &cobra.Command{
	Use:   "export-reports FILE.xlsx",
	Short: "Export every report to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		reports := services.NewReportService(
			repositories.NewReportRepository(db),
			repositories.NewUserRepository(db),
			repositories.NewListingRepository(db),
			nil,
		)

		out, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}

		// the CLI runs with operator rights
		operator := services.Actor{Role: models.RoleAdmin}
		if err := reports.Export(cmd.Context(), operator, out); err != nil {
			out.Close()
			os.Remove(args[0])
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reports written to %s\n", args[0])
		return nil
	},
}
