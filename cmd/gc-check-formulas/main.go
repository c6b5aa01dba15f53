// Command gc-check-formulas reconciles the formulas and charges of model
// metabolites with compound database entries.
//
// Usage:
//
//	gc-check-formulas [options] --model metabolites.txt --sources lookups.txt
//
// Metabolites that no database confirms are written to the mismatch table.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gemcurate/gemcurate/internal/cli"
	"github.com/gemcurate/gemcurate/reconcile"
	"github.com/spf13/cobra"
)

var (
	cfgOpts     cli.ConfigOptions
	modelFile   string
	sourcesFile string
	outputFile  string
	searchFile  string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gc-check-formulas [options] --model file --sources file",
		Short: "Check model formulas against compound databases",
		Long: `Check the chemical formula of every model metabolite against the
formulas compound databases give for it.

The model table needs the columns id, formula and optionally name and
charge. The sources table lists database entries found per metabolite with
the columns metabolite_id, database, db_id and optionally formula, charge and
by_formula. Entries with by_formula set were found by searching the model
formula and are only reported in the formula search table. Database names
are matched case-insensitively against --databases.

Metabolites without a formula, or whose formula no database confirms, are
written to the mismatch table.

Examples:

  # Report mismatches for the default databases
  gc-check-formulas -m metabolites.txt -s lookups.txt -o mismatches.txt

  # Accept +1 H for +1 charge and write the formula search table
  gc-check-formulas --chbal -m metabolites.txt -s lookups.txt \
      --search formula_search.txt`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cli.AddConfigFlags(cmd, &cfgOpts)
	cli.AddDelimFlag(cmd)
	cmd.Flags().StringVarP(&modelFile, "model", "m", "", "model metabolite table")
	cmd.Flags().StringVarP(&sourcesFile, "sources", "s", "", "database lookup table")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "mismatch table (default: stdout)")
	cmd.Flags().StringVar(&searchFile, "search", "", "formula search table")
	cmd.Flags().Bool("chbal", false, "accept hydrogen differences explained by charge")
	cmd.Flags().StringSlice("databases", nil, "databases to report, in column order")
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
	if modelFile == "" || sourcesFile == "" {
		return fmt.Errorf("--model and --sources are required")
	}

	log := cli.NewLogger(cfg.Debug)
	delim := cli.Delimiter(cfg.Delim)
	log.Debugf("databases %v, charge/hydrogen balancing %v", cfg.Databases, cfg.ChargeHydrogenBalance)

	metabolites, err := readModel(modelFile)
	if err != nil {
		return err
	}
	records, err := readSources(sourcesFile)
	if err != nil {
		return err
	}
	sources := reconcile.GroupRecords(records)
	log.Debugf("%d metabolites, %d database entries", len(metabolites), len(records))

	mismatches, err := cli.CreateOutput(outputFile)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer mismatches.Close()
	if err := mismatches.WriteHeaders(reconcile.MismatchHeaders(cfg.Databases)); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}

	var search *cli.Output
	if searchFile != "" {
		search, err = cli.CreateOutput(searchFile)
		if err != nil {
			return fmt.Errorf("opening search table: %w", err)
		}
		defer search.Close()
		if err := search.WriteHeaders(reconcile.SearchHeaders(cfg.Databases)); err != nil {
			return fmt.Errorf("writing search headers: %w", err)
		}
	}

	checker := reconcile.NewChecker(
		reconcile.WithChargeHydrogenBalance(cfg.ChargeHydrogenBalance),
		reconcile.WithDebug(cfg.Debug),
		reconcile.WithLogger(log.Out),
	)

	unreported := make(map[string]bool)
	var nMismatch, nFailed int
	for _, m := range metabolites {
		res, err := checker.Check(m, sources[m.ID])
		if err != nil {
			log.Warnf("%s: %v", m.ID, err)
			nFailed++
			continue
		}
		for _, f := range res.Invalid {
			log.Warnf("%s: ignoring malformed database formula %q", m.ID, f)
		}
		for _, db := range res.Unreported(cfg.Databases) {
			if !unreported[db] {
				unreported[db] = true
				log.Warnf("database %s is not in --databases %v; its entries are not reported", db, cfg.Databases)
			}
		}

		if res.Mismatch {
			nMismatch++
			if err := mismatches.WriteRow(res.Row(cfg.Databases, delim)...); err != nil {
				return fmt.Errorf("writing mismatch: %w", err)
			}
		}
		if search != nil && m.Formula != "" {
			if err := search.WriteRow(res.SearchRow(cfg.Databases, delim)...); err != nil {
				return fmt.Errorf("writing search row: %w", err)
			}
		}
	}

	log.Debugf("%d of %d metabolites mismatched, %d failed", nMismatch, len(metabolites), nFailed)

	if search != nil {
		if err := search.Close(); err != nil {
			return fmt.Errorf("writing search table: %w", err)
		}
	}
	if err := mismatches.Close(); err != nil {
		return fmt.Errorf("writing mismatch table: %w", err)
	}
	return nil
}

func readModel(path string) ([]reconcile.Metabolite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model table: %w", err)
	}
	defer f.Close()

	reader := cli.NewTabReader(f, true)
	if _, err := reader.Headers(); err != nil {
		return nil, fmt.Errorf("reading model headers: %w", err)
	}
	cols, err := reader.Columns([]string{"id", "formula"}, []string{"name", "charge"})
	if err != nil {
		return nil, fmt.Errorf("model table: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading model table: %w", err)
	}

	metabolites := make([]reconcile.Metabolite, 0, len(rows))
	for i, row := range rows {
		charge, err := cli.ParseCharge(cli.Cell(row, cols, "charge"))
		if err != nil {
			return nil, fmt.Errorf("model table row %d: %w", i+1, err)
		}
		metabolites = append(metabolites, reconcile.Metabolite{
			Index:   i,
			ID:      cli.Cell(row, cols, "id"),
			Name:    cli.Cell(row, cols, "name"),
			Formula: cli.Cell(row, cols, "formula"),
			Charge:  charge,
		})
	}
	return metabolites, nil
}

func readSources(path string) ([]reconcile.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sources table: %w", err)
	}
	defer f.Close()

	reader := cli.NewTabReader(f, true)
	if _, err := reader.Headers(); err != nil {
		return nil, fmt.Errorf("reading sources headers: %w", err)
	}
	cols, err := reader.Columns(
		[]string{"metabolite_id", "database", "db_id"},
		[]string{"formula", "charge", "by_formula"},
	)
	if err != nil {
		return nil, fmt.Errorf("sources table: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sources table: %w", err)
	}

	records := make([]reconcile.Record, 0, len(rows))
	for i, row := range rows {
		charge, err := cli.ParseCharge(cli.Cell(row, cols, "charge"))
		if err != nil {
			return nil, fmt.Errorf("sources table row %d: %w", i+1, err)
		}
		byFormula := false
		if s := cli.Cell(row, cols, "by_formula"); s != "" {
			byFormula, err = strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("sources table row %d: invalid by_formula %q", i+1, s)
			}
		}

		records = append(records, reconcile.Record{
			MetaboliteID: cli.Cell(row, cols, "metabolite_id"),
			Database:     cli.Cell(row, cols, "database"),
			ID:           cli.Cell(row, cols, "db_id"),
			Formula:      cli.Cell(row, cols, "formula"),
			Charge:       charge,
			ByFormula:    byFormula,
		})
	}
	return records, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
