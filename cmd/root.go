package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cachecmd "github.com/actionsguard/actionsguard/cmd/cache"
	inventorycmd "github.com/actionsguard/actionsguard/cmd/inventory"
	"github.com/actionsguard/actionsguard/cmd/scan"
	"github.com/actionsguard/actionsguard/cmd/version"
	"github.com/actionsguard/actionsguard/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "actionsguard [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "ActionsGuard audits GitHub Actions workflows for supply-chain risk.",
		Long: `ActionsGuard scans the CI workflows of GitHub repositories with OpenSSF
Scorecard, extracts per-workflow findings, and tracks score history across runs.
`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .actionsguard.yml when present)")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(cachecmd.CacheCmd)
	rootCmd.AddCommand(inventorycmd.InventoryCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	if cfgFile == "" {
		if _, statErr := os.Stat(".actionsguard.yml"); statErr == nil {
			cfgFile = ".actionsguard.yml"
		}
	}
	AppConfig, err = config.NewConfig(cfgFile)
	if err != nil {
		fmt.Printf("failed to initialize configuration - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	scan.Init(AppConfig)
	cachecmd.Init(AppConfig)
	inventorycmd.Init(AppConfig)
	version.Init(AppConfig)
}
