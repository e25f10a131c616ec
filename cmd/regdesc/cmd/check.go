package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/regdesc/pkg/cheader"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <header.h>...",
	Short: "Verify the layout of generated C register headers",
	Long: `Parse generated register headers and verify their layout: matching include
guards, 32-bit members only and reserved fillers named after the offset they
start at. Exits with an error if any header has issues.

Examples:
  regdesc check c-output/glb.h
  regdesc check -v c-output/*.h`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	parser, err := cheader.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		hdr, err := parser.ParseFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		issues := cheader.Check(hdr)
		if len(issues) == 0 {
			if verbose {
				ranges, _ := hdr.Ranges()
				size := 0
				if len(ranges) > 0 {
					size = ranges[len(ranges)-1].End
				}
				fmt.Fprintf(out, "%s: OK (%s, %d members, 0x%X bytes)\n",
					path, hdr.Struct.Name, len(hdr.Struct.Members), size)
			} else {
				fmt.Fprintf(out, "%s: OK\n", path)
			}
			continue
		}

		failed++
		fmt.Fprintf(out, "%s: %d issue(s)\n", path, len(issues))
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
		logger.Debug("Header check failed", log.String("path", path), log.Int("issues", len(issues)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d header(s) failed the layout check", failed, len(args))
	}
	return nil
}
