package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/josepguedes/Projeto-2/internal/config"
	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "foodctl",
	Short: "FoodShare administration tool",
	Long: `foodctl runs maintenance tasks against the FoodShare database.

It reads the same environment variables as the API (DB_*, JWT_SECRET_KEY, ...),
optionally from a .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("No %s file found, using system environment", envFile)
		}
		logger.Init()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCategoriesCmd)
	rootCmd.AddCommand(exportReportsCmd)
	rootCmd.AddCommand(promoteCmd)
}

// openDB loads the configuration and connects to the database.
func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return database.Connect(cfg)
}
