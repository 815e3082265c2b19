package inventory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/actionsguard/actionsguard/internal/inventory"
	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/pkg/shared/config"
	"github.com/actionsguard/actionsguard/pkg/shared/logger"
)

// Global variables for configuration and command arguments
var (
	AppConfig  *config.Config
	exportPath string
)

// InventoryCmd represents the inventory command group.
var InventoryCmd = &cobra.Command{
	Use:                   "inventory [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Inspect the cross-run repository score ledger",
}

var inventoryListCmd = &cobra.Command{
	Use:                   "list",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "List every tracked repository with its current score",
	RunE:                  runInventoryListCommand,
}

var inventoryChangesCmd = &cobra.Command{
	Use:                   "changes",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Show repositories whose score moved between the last two scans",
	RunE:                  runInventoryChangesCommand,
}

var inventoryStatsCmd = &cobra.Command{
	Use:                   "stats",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Print ledger-wide statistics",
	RunE:                  runInventoryStatsCommand,
}

var inventoryExportCmd = &cobra.Command{
	Use:                   "export [--output/-o PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Export the full ledger as JSON",
	RunE:                  runInventoryExportCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func openInventory() (*inventory.Inventory, error) {
	log := logger.NewLogger(AppConfig, "core-inventory")
	return inventory.NewInventory(AppConfig.Inventory.Path, log)
}

// runInventoryListCommand executes the inventory list command.
func runInventoryListCommand(cmd *cobra.Command, args []string) error {
	inv, err := openInventory()
	if err != nil {
		return err
	}

	entries := inv.All()
	if len(entries) == 0 {
		fmt.Println("No repositories tracked yet. Run a scan first.")
		return nil
	}

	fmt.Printf("%-50s %6s  %-8s  %5s  %s\n", "REPOSITORY", "SCORE", "RISK", "SCANS", "LAST UPDATED")
	for _, entry := range entries {
		fmt.Printf("%-50s %6.1f  %-8s  %5d  %s\n",
			entry.RepoName, entry.CurrentScore, entry.CurrentRisk, entry.ScanCount, entry.LastUpdated)
	}
	return nil
}

// runInventoryChangesCommand executes the inventory changes command.
func runInventoryChangesCommand(cmd *cobra.Command, args []string) error {
	inv, err := openInventory()
	if err != nil {
		return err
	}

	changes := inv.ScoreChanges()
	if len(changes) == 0 {
		fmt.Println("No score changes recorded.")
		return nil
	}

	for _, change := range changes {
		fmt.Printf("%-50s %5.1f -> %5.1f (%+.1f)  %s -> %s\n",
			change.RepoName, change.PreviousScore, change.CurrentScore, change.Change,
			change.PreviousRisk, change.CurrentRisk)
	}
	return nil
}

// runInventoryStatsCommand executes the inventory stats command.
func runInventoryStatsCommand(cmd *cobra.Command, args []string) error {
	inv, err := openInventory()
	if err != nil {
		return err
	}

	stats := inv.Stats()
	fmt.Printf("Tracked repositories: %d\n", stats.TotalRepos)
	fmt.Printf("Average score: %.2f\n", stats.AvgScore)
	fmt.Printf("Risk breakdown: %d critical, %d high, %d medium, %d low\n",
		stats.RiskBreakdown[models.RiskCritical], stats.RiskBreakdown[models.RiskHigh],
		stats.RiskBreakdown[models.RiskMedium], stats.RiskBreakdown[models.RiskLow])
	fmt.Printf("Last updated: %s\n", stats.LastUpdated)
	return nil
}

// runInventoryExportCommand executes the inventory export command.
func runInventoryExportCommand(cmd *cobra.Command, args []string) error {
	inv, err := openInventory()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(inv.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling the inventory export: %w", err)
	}

	if exportPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("error writing inventory export: %w", err)
	}
	fmt.Printf("Inventory exported to %s\n", exportPath)
	return nil
}

// Initialize flags for the inventory commands.
func init() {
	inventoryExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Path for the exported JSON. Prints to stdout when omitted.")
	InventoryCmd.AddCommand(inventoryListCmd)
	InventoryCmd.AddCommand(inventoryChangesCmd)
	InventoryCmd.AddCommand(inventoryStatsCmd)
	InventoryCmd.AddCommand(inventoryExportCmd)
}
