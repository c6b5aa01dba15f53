// Command gc-compare-formulas checks whether chemical formulas describe the
// same elements.
//
// Usage:
//
//	gc-compare-formulas [options] formula formula...
//	gc-compare-formulas [options] -f col -f col [-Z col -Z col] < table.txt
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gemcurate/gemcurate/formula"
	"github.com/gemcurate/gemcurate/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	colOpts    cli.ColOptions
	ioOpts     cli.IOOptions
	cfgOpts    cli.ConfigOptions
	charges    []int
	chargeCols []string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gc-compare-formulas [options] [formula...]",
		Short: "Compare chemical formulas",
		Long: `Compare chemical formulas element by element.

Formulas match when they contain the same elements with the same counts,
in any order. With charges, a difference in hydrogen atoms is accepted when
the charge difference explains it (+1 charge for +1 H).

Without formula arguments, a tab-delimited table is read and the columns
named with --formula-col are compared row by row. A "match" column is
appended to each row.

Examples:

  # Two formulas
  gc-compare-formulas H2O OH2

  # Hydrogen difference explained by charge
  gc-compare-formulas -z 0,1 H2O H3O

  # Compare two columns of a table
  gc-compare-formulas -f formula_model -f formula_bigg \
      -Z charge_model -Z charge_bigg < metabolites.txt`,
		RunE: run,
	}

	cli.AddColFlags(cmd, &colOpts, "formula-col", "f", "formula column (repeat for each formula)")
	cli.AddIOFlags(cmd, &ioOpts)
	cli.AddConfigFlags(cmd, &cfgOpts)
	cmd.Flags().IntSliceVarP(&charges, "charges", "z", nil,
		"charge of each formula argument, in order")
	cmd.Flags().StringArrayVarP(&chargeCols, "charge-col", "Z", nil,
		"charge column matching each --formula-col")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(cmd, &cfgOpts)
	if err != nil {
		return err
	}
	if cfgOpts.Show {
		return cfg.WriteYAML(cmd.OutOrStdout())
	}
	log := cli.NewLogger(cfg.Debug)

	if len(args) > 0 {
		return compareArgs(cmd.OutOrStdout(), args, log)
	}
	if len(charges) > 0 {
		return fmt.Errorf("--charges applies to formula arguments; use --charge-col for tables")
	}
	return compareTable(log)
}

func compareArgs(w io.Writer, formulas []string, log *cli.Logger) error {
	match, err := formula.Compare(formulas, charges)
	if err != nil {
		return err
	}
	log.Debugf("formulas %v charges %v -> %v", formulas, charges, match)

	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(w, strconv.FormatBool(match))
		return nil
	}
	if match {
		fmt.Fprintln(w, "formulas match")
	} else {
		fmt.Fprintln(w, "formulas differ")
	}
	return nil
}

func compareTable(log *cli.Logger) error {
	if len(colOpts.Cols) < 1 {
		return fmt.Errorf("formula arguments or at least one --formula-col required")
	}
	if len(chargeCols) > 0 && len(chargeCols) != len(colOpts.Cols) {
		return fmt.Errorf("%d --charge-col for %d --formula-col", len(chargeCols), len(colOpts.Cols))
	}

	in, err := cli.OpenInput(ioOpts.Input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, err := cli.CreateOutput(ioOpts.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	reader := cli.NewTabReader(in, !colOpts.NoHead)
	headers, err := reader.Headers()
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading headers: %w", err)
	}

	formulaIdx, err := reader.FindColumns(colOpts.Cols)
	if err != nil {
		return fmt.Errorf("finding formula columns: %w", err)
	}
	chargeIdx, err := reader.FindColumns(chargeCols)
	if err != nil {
		return fmt.Errorf("finding charge columns: %w", err)
	}

	if headers != nil {
		if err := out.WriteHeaders(append(headers, "match")); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading row: %w", err)
		}

		result, err := compareRow(row, formulaIdx, chargeIdx)
		if err != nil {
			log.Warnf("line %d: %v", reader.Line(), err)
		} else {
			log.Debugf("line %d: %v", reader.Line(), result)
		}
		if err := out.WriteRow(append(row, result)...); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	return out.Close()
}

// compareRow returns "true" or "false" for one table row, or an empty cell
// and the reason when the row cannot be compared. Rows with a blank charge
// are compared without charges.
func compareRow(row []string, formulaIdx, chargeIdx []int) (string, error) {
	formulas := make([]string, len(formulaIdx))
	for i, idx := range formulaIdx {
		formulas[i] = cli.Field(row, idx)
	}

	var rowCharges []int
	for _, idx := range chargeIdx {
		c, err := cli.ParseCharge(cli.Field(row, idx))
		if err != nil {
			return "", err
		}
		if c == nil {
			rowCharges = nil
			break
		}
		rowCharges = append(rowCharges, *c)
	}

	match, err := formula.Compare(formulas, rowCharges)
	if err != nil {
		if errors.Is(err, formula.ErrMalformed) {
			return "", err
		}
		return "", fmt.Errorf("comparing %v: %w", formulas, err)
	}
	return strconv.FormatBool(match), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
