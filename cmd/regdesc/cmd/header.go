package cmd

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/regdesc/pkg/cheader"
	"github.com/OpenTraceLab/regdesc/pkg/loader"
	"github.com/OpenTraceLab/regdesc/pkg/regmodel"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var (
	headerFile         string
	headerOutDir       string
	headerOnlyVerified bool
	headerStdout       bool
)

var headerCmd = &cobra.Command{
	Use:   "header <peripheral-type>",
	Short: "Generate a C register struct header for a peripheral type",
	Long: `Generate a C header with one typedef'd struct describing the register
layout of a peripheral type. Gaps between registers are filled with reserved
uint32_t arrays so every member sits at its hardware offset.

The header is written to <out>/<peripheral-type>.h.

Examples:
  regdesc header glb -d bouffalo-data/bl702
  regdesc header uart --only-verified --out include/
  regdesc header glb --file peripherals/glb_reg.yaml --stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runHeader,
}

func init() {
	rootCmd.AddCommand(headerCmd)

	headerCmd.Flags().StringVarP(&headerFile, "file", "f", "",
		"register file to read instead of resolving it in the data folder")
	headerCmd.Flags().StringVarP(&headerOutDir, "out", "o", cheader.DefaultDir,
		"output directory")
	headerCmd.Flags().BoolVar(&headerOnlyVerified, "only-verified", false,
		"only emit registers marked as verified")
	headerCmd.Flags().BoolVar(&headerStdout, "stdout", false,
		"print the header instead of writing a file")
}

func runHeader(cmd *cobra.Command, args []string) error {
	peripheral := args[0]

	ld := loader.New(settings.Data, loader.WithLogger(logger))
	var (
		rf  *regmodel.RegisterFile
		err error
	)
	if headerFile != "" {
		rf, err = ld.LoadRegisterFile(headerFile)
	} else {
		rf, err = ld.RegisterFile(peripheral)
		if errors.Is(err, loader.ErrNoRegisterFile) {
			return fmt.Errorf("no register file for peripheral %q in %s", peripheral, ld.Folder())
		}
	}
	if err != nil {
		return err
	}

	opts := settings.HeaderOptions()
	if cmd.Flags().Changed("only-verified") {
		opts.OnlyVerified = headerOnlyVerified
	}
	gen := cheader.New(opts)

	if headerStdout {
		text, err := gen.Generate(rf, peripheral)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	dir := headerOutDir
	if !cmd.Flags().Changed("out") {
		dir = settings.HeaderDir
	}
	path, err := gen.WriteFile(dir, rf, peripheral)
	if err != nil {
		return err
	}

	logger.Info("Header written",
		log.String("peripheral", peripheral),
		log.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
