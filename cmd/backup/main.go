package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"smartlio/internal/config"
	"smartlio/internal/database"
	"smartlio/internal/logger"
	"smartlio/internal/service"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Smart Lio database backup tool",
		Long: "Export or import the whole Smart Lio store as JSON.\n\n" +
			"Environment Variables:\n" +
			"  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)\n" +
			"  DB_PATH          SQLite database path (default: ./smartlio.db)\n" +
			"  DATABASE_URL     PostgreSQL or MySQL connection URL",
		SilenceUsage: true,
	}
	cmd.AddCommand(newExportCommand(), newImportCommand())
	return cmd
}

func newExportCommand() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export database to JSON file",
		Example: "  backup export\n  backup export --output mybackup.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backupService, logr, closeDB, err := openBackupService()
			if err != nil {
				return err
			}
			defer closeDB()

			// Generate default filename if not provided
			if outputPath == "" {
				outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			file, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer file.Close()

			logr.WithField("path", outputPath).Info("Exporting database")
			if _, err := backupService.Export(cmd.Context(), file); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if fileInfo, err := file.Stat(); err == nil {
				logr.Infof("Export complete! File size: %.2f MB", float64(fileInfo.Size())/1024/1024)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCommand() *cobra.Command {
	var (
		inputPath string
		clearData bool
		assumeYes bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import database from JSON file",
		Example: "  backup import --input backup.json\n" +
			"  backup import --input backup.json --clear",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("failed to open input file: %w", err)
			}
			defer file.Close()

			if clearData && !assumeYes {
				fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will delete all existing data. Type 'yes' to confirm: ")
				confirmation, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(confirmation) != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
					return nil
				}
			}

			backupService, logr, closeDB, err := openBackupService()
			if err != nil {
				return err
			}
			defer closeDB()

			logr.WithFields(logrus.Fields{"path": inputPath, "clear": clearData}).Info("Importing database")
			if err := backupService.Import(cmd.Context(), file, clearData); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			logr.Info("Import complete!")
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "Input file path (required)")
	cmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before import (WARNING: destructive)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt for --clear")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// openBackupService connects to the configured database and brings the
// schema up to date before any backup work
func openBackupService() (*service.BackupService, *logrus.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logr := logger.New(logger.Settings{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return service.NewBackupService(db, logr), logr, func() { db.Close() }, nil
}
