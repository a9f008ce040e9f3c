package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sentencescramble/internal/config"
	"sentencescramble/internal/database"
	"sentencescramble/internal/service"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import progress, share history and drafts",
		Long: `Export or import the database as JSON.

The database is chosen by DB_TYPE (sqlite, postgres or mysql), DB_PATH for
SQLite and DATABASE_URL for PostgreSQL or MySQL.`,
	}

	cmd.AddCommand(backupExportCmd(), backupImportCmd())
	return cmd
}

// openBackupService connects to the configured database and brings its schema up to date
func openBackupService() (*service.BackupService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return service.NewBackupService(db), func() { db.Close() }, nil
}

func backupExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			backups, closeDB, err := openBackupService()
			if err != nil {
				return err
			}
			defer closeDB()

			zap.L().Info("exporting database", zap.String("output", output))
			data, err := backups.Export(output)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d progress records, %d histories and %d drafts to %s\n",
				len(data.Progress), len(data.History), len(data.Drafts), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func backupImportCmd() *cobra.Command {
	var (
		input      string
		clearFirst bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file: %w", err)
			}

			if clearFirst && !yes && !confirm(cmd, "WARNING: This will delete all existing data. Type 'yes' to confirm: ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}

			backups, closeDB, err := openBackupService()
			if err != nil {
				return err
			}
			defer closeDB()

			zap.L().Info("importing database", zap.String("input", input), zap.Bool("clear", clearFirst))
			data, err := backups.Import(input, clearFirst)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d progress records, %d histories and %d drafts\n",
				len(data.Progress), len(data.History), len(data.Drafts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file path")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Clear existing data before import (destructive)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt for --clear")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line) == "yes"
}
