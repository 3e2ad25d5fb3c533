package commands

import (
	"fmt"
	"os"

	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/spf13/cobra"
)

var importCategoriesCmd = &cobra.Command{
	Use:   "import-categories FILE.xlsx",
	Short: "Import food categories from a spreadsheet",
	Long: `Import food categories from the first column of every sheet of an XLSX
workbook. A header cell named NomeCategoria is ignored, as are categories that
already exist.

Examples:
  foodctl import-categories categorias.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		categories := services.NewCategoryService(repositories.NewCategoryRepository(db))
		res, err := categories.Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories, skipped %d\n", res.Created, res.Skipped)
		return nil
	},
}
