package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/regdesc/pkg/svd"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var (
	svdOutput           string
	svdDerivedRegisters bool
	svdVendor           string
	svdVendorID         string
)

var svdCmd = &cobra.Command{
	Use:   "svd <chip>...",
	Short: "Generate CMSIS-SVD files for chips",
	Long: `Generate a CMSIS-SVD document for each chip from chips/<chip>.yaml and
the register files of its peripherals.

Instances sharing a peripheral type are emitted with derivedFrom pointing at
the first instance of that type. Peripheral types without a register file are
emitted without registers.

Examples:
  regdesc svd bl702 -d bouffalo-data/bl702
  regdesc svd bl702 -o out/bl702.svd --derived-registers`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSVD,
}

func init() {
	rootCmd.AddCommand(svdCmd)

	svdCmd.Flags().StringVarP(&svdOutput, "output", "o", "",
		"output file (default <chip>.svd, only valid with a single chip)")
	svdCmd.Flags().BoolVar(&svdDerivedRegisters, "derived-registers", false,
		"also emit registers for peripherals that carry derivedFrom")
	svdCmd.Flags().StringVar(&svdVendor, "vendor", "", "vendor name")
	svdCmd.Flags().StringVar(&svdVendorID, "vendor-id", "", "vendor ID")
}

func runSVD(cmd *cobra.Command, args []string) error {
	if svdOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output can only be used with a single chip")
	}

	cfg := settings.SVDConfig()
	if cmd.Flags().Changed("derived-registers") {
		cfg.DerivedRegisters = svdDerivedRegisters
	}
	if svdVendor != "" {
		cfg.Vendor = svdVendor
	}
	if svdVendorID != "" {
		cfg.VendorID = svdVendorID
	}

	gen, err := svd.New(settings.Data, cfg, logger)
	if err != nil {
		return err
	}

	for _, chip := range args {
		path := svdOutput
		if path == "" {
			path = chip + ".svd"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}

		if err := gen.GenerateFor(chip, path); err != nil {
			return fmt.Errorf("chip %s: %w", chip, err)
		}
		logger.Info("SVD written", log.String("chip", chip), log.String("path", path))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}
