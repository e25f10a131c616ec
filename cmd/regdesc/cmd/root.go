package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/regdesc/internal/config"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	settingsFile string
	dataDir      string

	settings *config.Settings
	logger   *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "regdesc",
	Short: "Register description generator",
	Long: `Generate C register headers and CMSIS-SVD files from vendor YAML
register descriptions.

The data folder is expected to contain:
  chips/<chip>.yaml               peripheral instances of a chip
  peripherals/<type>.yaml         register file of a peripheral type
  peripherals/<type>_reg.yaml     legacy register file name

Examples:
  regdesc svd bl702 -d bouffalo-data/bl702 -o bl702.svd   # Generate SVD
  regdesc header glb -d bouffalo-data/bl702              # Write c-output/glb.h
  regdesc check c-output/glb.h                           # Verify a header layout
  regdesc info bl702 -d bouffalo-data/bl702 --json       # Peripheral summary`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "config", "",
		"settings file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", ".",
		"chip data folder containing chips/ and peripherals/")
}

// setup loads the settings file and creates the logger before any command
// runs. Flags given on the command line win over the settings file.
func setup(cmd *cobra.Command, args []string) error {
	logger = config.CreateLogger(verbose, quiet)

	var err error
	settings, err = config.LoadSettings(settingsFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") || settingsFile == "" {
		settings.Data = dataDir
	}
	return nil
}
