package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/regdesc/pkg/loader"
	"github.com/OpenTraceLab/regdesc/pkg/regmodel"
	"github.com/OpenTraceLab/regdesc/pkg/svd"
	"github.com/spf13/cobra"
)

var (
	outputJSON bool
)

// ChipInfo represents structured chip information for tooling
type ChipInfo struct {
	Name            string           `json:"name"`
	PeripheralCount int              `json:"peripheral_count"`
	RegisterFiles   int              `json:"register_files"`
	Peripherals     []PeripheralInfo `json:"peripherals"`
	Types           []TypeInfo       `json:"types"`
}

// TypeInfo lists the instances sharing a peripheral type
type TypeInfo struct {
	Type      string   `json:"type"`
	Instances []string `json:"instances"`
}

// PeripheralInfo represents one peripheral instance
type PeripheralInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	BaseAddress string `json:"base_address"`
	Size        string `json:"size,omitempty"`
	Registers   int    `json:"registers"`
	Modeled     bool   `json:"modeled"`
	DerivedFrom string `json:"derived_from,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <chip>",
	Short: "Show the peripherals of a chip",
	Long: `Load a chip description and list its peripheral instances with base
address, register count and derivation, as the SVD generator would emit them.

Examples:
  regdesc info bl702 -d bouffalo-data/bl702
  regdesc info bl702 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ld := loader.New(settings.Data, loader.WithLogger(logger))
	chip, err := ld.LoadChip(args[0])
	if err != nil {
		return err
	}

	cfg := settings.SVDConfig()
	cfg.DerivedRegisters = true
	gen, err := svd.New(settings.Data, cfg, logger)
	if err != nil {
		return err
	}
	dev, err := gen.Build(chip, ld)
	if err != nil {
		return err
	}

	info := &ChipInfo{
		Name:            chip.Name,
		PeripheralCount: len(chip.Peripherals),
		RegisterFiles:   ld.Stats().FilesParsed,
		Peripherals:     make([]PeripheralInfo, len(dev.Peripherals)),
	}
	for i, p := range dev.Peripherals {
		inst := chip.Peripherals[i]
		pi := PeripheralInfo{
			Name:        p.Name,
			Type:        inst.Peripheral,
			BaseAddress: p.BaseAddress,
			Registers:   p.RegisterCount(),
			Modeled:     p.Registers != nil,
			DerivedFrom: p.DerivedFrom,
		}
		if inst.Size != nil {
			pi.Size = fmt.Sprintf("0x%X", *inst.Size)
		}
		info.Peripherals[i] = pi
	}
	info.Types = peripheralTypes(chip)

	if outputJSON {
		return outputJSONFormat(cmd.OutOrStdout(), info)
	}
	return outputHumanFormat(cmd.OutOrStdout(), info)
}

// peripheralTypes groups the instances of a chip by peripheral type, in order
// of first appearance. Untyped instances are left out.
func peripheralTypes(chip *regmodel.ChipDescription) []TypeInfo {
	var types []TypeInfo
	seen := make(map[string]bool)
	for _, inst := range chip.Peripherals {
		if inst.Peripheral == "" || seen[inst.Peripheral] {
			continue
		}
		seen[inst.Peripheral] = true

		ti := TypeInfo{Type: inst.Peripheral}
		for _, other := range chip.InstancesOf(inst.Peripheral) {
			ti.Instances = append(ti.Instances, strings.ToUpper(other.Name))
		}
		types = append(types, ti)
	}
	return types
}

func outputJSONFormat(w io.Writer, info *ChipInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func outputHumanFormat(w io.Writer, info *ChipInfo) error {
	fmt.Fprintf(w, "Chip: %s\n", info.Name)
	fmt.Fprintf(w, "Peripherals: %d (%d register files)\n\n", info.PeripheralCount, info.RegisterFiles)

	fmt.Fprintf(w, "  %-16s %-12s %-12s %-10s %-9s %s\n",
		"NAME", "TYPE", "BASE", "SIZE", "REGS", "DERIVED")
	for _, p := range info.Peripherals {
		regs := "-"
		if p.Modeled {
			regs = fmt.Sprintf("%d", p.Registers)
		}
		fmt.Fprintf(w, "  %-16s %-12s %-12s %-10s %-9s %s\n",
			p.Name, p.Type, p.BaseAddress, p.Size, regs, p.DerivedFrom)
	}

	if verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Types:")
		for _, ti := range info.Types {
			fmt.Fprintf(w, "  %-12s %s\n", ti.Type, strings.Join(ti.Instances, ", "))
		}
		fmt.Fprintln(w)
		for _, p := range info.Peripherals {
			if !p.Modeled && p.Type != "" {
				fmt.Fprintf(w, "  %s: no register file for type %q\n", p.Name, p.Type)
			}
		}
	}
	return nil
}
