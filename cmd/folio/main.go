package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/config"
	"github.com/xxxsen/folio/internal/db"
	"github.com/xxxsen/folio/internal/repo"
	"github.com/xxxsen/folio/internal/service"
)

func main() {
	var (
		configPath string
		envFile    string
	)

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "folio portfolio backend",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file with secret overrides")

	load := func() (*config.Config, error) {
		if configPath == "" {
			return nil, fmt.Errorf("--config is required")
		}
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load env file: %w", err)
			}
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(
			cfg.LogConfig.File,
			cfg.LogConfig.Level,
			int(cfg.LogConfig.FileCount),
			int(cfg.LogConfig.FileSize),
			int(cfg.LogConfig.KeepDays),
			cfg.LogConfig.Console,
		)
		logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
		return cfg, nil
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run folio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}

	var (
		expiryDays int
		secretCode string
	)
	shareCmd := &cobra.Command{
		Use:   "share",
		Short: "manage share links",
	}
	shareCreateCmd := &cobra.Command{
		Use:   "create <target-url>",
		Short: "create a share link for a document url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			links := service.NewShareLinkService(repo.NewShareLinkRepo(conn),
				service.WithShareIDBytes(cfg.Share.IDBytes),
				service.WithCreateAttempts(cfg.Share.MaxCreateAttempts),
			)
			link, err := links.Create(cmd.Context(), args[0], service.ShareLinkOptions{
				ExpiryDays: expiryDays,
				SecretCode: secretCode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.SiteURL+"/shared/"+link.ID)
			return nil
		},
	}
	shareCreateCmd.Flags().IntVar(&expiryDays, "expiry-days", 0, "days until the link expires, 0 keeps it forever")
	shareCreateCmd.Flags().StringVar(&secretCode, "secret", "", "secret code required to open the link")
	shareCmd.AddCommand(shareCreateCmd)

	rootCmd.AddCommand(runCmd, migrateCmd, shareCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return conn, nil
}
