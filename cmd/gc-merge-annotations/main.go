// Command gc-merge-annotations unions annotation tables from several
// curation passes.
//
// Usage:
//
//	gc-merge-annotations [options] [file...]
//
// Each input has the columns id, key and value. Values may hold several
// entries joined with --delim.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gemcurate/gemcurate/annotation"
	"github.com/gemcurate/gemcurate/internal/cli"
	"github.com/spf13/cobra"
)

var (
	cfgOpts    cli.ConfigOptions
	outputFile string
	noHead     bool
	links      string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gc-merge-annotations [options] [file...]",
		Short: "Merge annotation tables",
		Long: `Merge annotation tables of model entities.

Every input row gives an entity id, an annotation key and one or more values.
Rows of all inputs are combined so that each entity and key appears once,
holding the union of its values in sorted order. Entities keep the order in
which they first appear; keys are sorted.

With --links=compound or --links=reaction, keys naming a known database
(BiGG, SEED, MetaCyc, MetaNetX, KEGG) are rewritten to their identifiers.org
prefix and their values to identifiers.org links. Values of the key eco are
Evidence and Conclusion Ontology codes and become ECO links. When a rewritten
key meets a key that already uses the prefix, their values are unioned.

Examples:

  # Merge the annotations of two passes
  gc-merge-annotations genes_kegg.txt genes_tsv.txt > genes.txt

  # Turn database IDs of metabolites into links
  gc-merge-annotations --links=compound < metabolite_ids.txt`,
		RunE: run,
	}

	cli.AddConfigFlags(cmd, &cfgOpts)
	cli.AddDelimFlag(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noHead, "nohead", false, "input files have no header row")
	cmd.Flags().StringVar(&links, "links", "", "rewrite database keys to identifiers.org links (compound, reaction)")
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
	delim := cli.Delimiter(cfg.Delim)

	var kind annotation.Kind
	switch links {
	case "":
	case string(annotation.KindCompound), string(annotation.KindReaction):
		kind = annotation.Kind(links)
	default:
		return fmt.Errorf("invalid --links %q (compound or reaction)", links)
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	merged := newTable()
	for _, path := range args {
		in, err := cli.OpenInput(path)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		n, err := merged.read(in, delim)
		in.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Debugf("%s: %d rows", path, n)
	}

	if kind != "" {
		merged.link(kind, log)
	}

	out, err := cli.CreateOutput(outputFile)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	if err := merged.write(out.TabWriter, delim); err != nil {
		return err
	}
	return out.Close()
}

// table holds the merged annotations per entity in input order.
type table struct {
	ids  []string
	byID map[string]annotation.Annotations
}

func newTable() *table {
	return &table{byID: make(map[string]annotation.Annotations)}
}

func (t *table) add(id string, a annotation.Annotations) {
	cur, ok := t.byID[id]
	if !ok {
		t.ids = append(t.ids, id)
		t.byID[id] = annotation.Merge(a)
		return
	}
	cur.Merge(a)
}

func (t *table) read(r io.Reader, delim string) (int, error) {
	reader := cli.NewTabReader(r, !noHead)
	if _, err := reader.Headers(); err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading headers: %w", err)
	}

	idCol, keyCol, valCol := 0, 1, 2
	if !noHead {
		cols, err := reader.Columns([]string{"id", "key", "value"}, nil)
		if err != nil {
			return 0, err
		}
		idCol, keyCol, valCol = cols["id"], cols["key"], cols["value"]
	}

	n := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("reading row: %w", err)
		}
		n++

		id := strings.TrimSpace(cli.Field(row, idCol))
		key := strings.TrimSpace(cli.Field(row, keyCol))
		if id == "" || key == "" {
			return n, fmt.Errorf("line %d: id and key are required", reader.Line())
		}
		a := make(annotation.Annotations)
		a.Add(key, cli.SplitValues(cli.Field(row, valCol), delim)...)
		t.add(id, a)
	}
}

// evidenceKey holds Evidence and Conclusion Ontology codes.
const evidenceKey = "eco"

// link rewrites database keys into identifiers.org prefixes and links, and
// evidence codes into ECO links. Keys without a known prefix are kept as they
// are; values landing on the same key are unioned.
func (t *table) link(kind annotation.Kind, log *cli.Logger) {
	for _, id := range t.ids {
		linked := make(annotation.Annotations)
		for key, vals := range t.byID[id] {
			if strings.EqualFold(key, evidenceKey) {
				for _, code := range vals.Sorted() {
					linked.Add(evidenceKey, annotation.ECOURI(code))
				}
				continue
			}

			prefix, err := annotation.Prefix(kind, key)
			if err != nil {
				log.Debugf("%s: keeping %s: %v", id, key, err)
				linked.Add(key, vals.Sorted()...)
				continue
			}
			linked.Add(prefix)
			for _, v := range vals.Sorted() {
				uri, err := annotation.IdentifiersURI(kind, key, v)
				if err != nil {
					log.Warnf("%s: %v", id, err)
					continue
				}
				linked.Add(prefix, uri)
			}
		}
		t.byID[id] = linked
	}
}

func (t *table) write(w *cli.TabWriter, delim string) error {
	if err := w.WriteHeaders([]string{"id", "key", "value"}); err != nil {
		return fmt.Errorf("writing headers: %w", err)
	}
	for _, id := range t.ids {
		a := t.byID[id]
		for _, key := range a.Keys() {
			if err := w.WriteRow(id, key, strings.Join(a.Get(key), delim)); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
