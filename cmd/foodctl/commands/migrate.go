package commands

import (
	"fmt"

	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default food categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		categories := services.NewCategoryService(repositories.NewCategoryRepository(db))
		n, err := categories.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("seed failed after %d categories: %w", n, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d categories\n", n)
		return nil
	},
}
