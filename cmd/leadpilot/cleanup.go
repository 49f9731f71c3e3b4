package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadpilot/leadpilot/internal/config"
	"github.com/leadpilot/leadpilot/internal/db"
	"github.com/leadpilot/leadpilot/internal/repository"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up expired sessions and old audit log entries",
	RunE:  runCleanup,
}

var (
	cleanupAuditDays int
	cleanupDryRun    bool
)

func init() {
	cleanupCmd.Flags().IntVar(&cleanupAuditDays, "audit-days", 180, "Delete audit log entries older than N days")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	cleanupCmd.Flags().StringVarP(&configFile, "config", "c", "/etc/leadpilot/leadpilot.yaml", "Path to configuration file")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	if cleanupDryRun {
		fmt.Println("Dry run mode - no data will be deleted")
		fmt.Println()
	}

	if err := cleanupSessions(database); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}

	auditCutoff := time.Now().AddDate(0, 0, -cleanupAuditDays)
	if err := cleanupAuditLogs(database, auditCutoff); err != nil {
		return fmt.Errorf("failed to cleanup audit logs: %w", err)
	}

	if !cleanupDryRun {
		fmt.Println("\nCleanup completed")
	}

	return nil
}

func cleanupSessions(database *db.DB) error {
	var count int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE expires_at < datetime('now')`,
	).Scan(&count)
	if err != nil {
		return err
	}

	fmt.Printf("Expired sessions: %d\n", count)

	if !cleanupDryRun && count > 0 {
		sessions := repository.NewSessionRepository(database.DB)
		deleted, err := sessions.DeleteExpired()
		if err != nil {
			return err
		}
		fmt.Printf("  Deleted: %d\n", deleted)
	}

	return nil
}

func cleanupAuditLogs(database *db.DB, cutoff time.Time) error {
	var count int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM audit_log WHERE created_at < ?`,
		cutoff,
	).Scan(&count)
	if err != nil {
		return err
	}

	fmt.Printf("Audit log entries older than %d days: %d\n", cleanupAuditDays, count)

	if !cleanupDryRun && count > 0 {
		result, err := database.Exec(`DELETE FROM audit_log WHERE created_at < ?`, cutoff)
		if err != nil {
			return err
		}
		deleted, _ := result.RowsAffected()
		fmt.Printf("  Deleted: %d\n", deleted)
	}

	return nil
}
