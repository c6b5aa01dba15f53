package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gemcurate/gemcurate/annotation"
	"github.com/gemcurate/gemcurate/internal/cli"
)

func TestTable_ReadMerge(t *testing.T) {
	first := "id\tkey\tvalue\n" +
		"FMG_0001\tkegg.genes\tfma:FMG_0001\n" +
		"FMG_0002\trefseq\tWP_1.1::WP_2.1\n"
	second := "key\tvalue\tid\n" +
		"refseq\tWP_2.1::WP_3.1\tFMG_0002\n" +
		"uniprot\tP12345\tFMG_0001\n"

	tbl := newTable()
	for _, in := range []string{first, second} {
		if _, err := tbl.read(strings.NewReader(in), "::"); err != nil {
			t.Fatalf("read() error = %v", err)
		}
	}

	var buf strings.Builder
	w := cli.NewTabWriter(&buf)
	if err := tbl.write(w, ","); err != nil {
		t.Fatalf("write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := "id\tkey\tvalue\n" +
		"FMG_0001\tkegg.genes\tfma:FMG_0001\n" +
		"FMG_0001\tuniprot\tP12345\n" +
		"FMG_0002\trefseq\tWP_1.1,WP_2.1,WP_3.1\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTable_ReadMissingKey(t *testing.T) {
	tbl := newTable()
	_, err := tbl.read(strings.NewReader("id\tkey\tvalue\nFMG_0001\t\tx\n"), "::")
	if err == nil {
		t.Error("read() with empty key should fail")
	}
}

func TestTable_Link(t *testing.T) {
	tbl := newTable()
	a := make(annotation.Annotations)
	a.Add("SEED", "cpd00001")
	a.Add("inchikey", "XLYOFNOQVPJJNP-UHFFFAOYSA-N")
	tbl.add("M_h2o_c", a)

	tbl.link(annotation.KindCompound, &cli.Logger{Out: &strings.Builder{}})

	got := tbl.byID["M_h2o_c"]
	if vals := got.Get("seed.compound"); len(vals) != 1 || vals[0] != "https://identifiers.org/seed.compound:cpd00001" {
		t.Errorf("seed.compound = %v", vals)
	}
	if _, ok := got["SEED"]; ok {
		t.Error("SEED key should be rewritten")
	}
	if vals := got.Get("inchikey"); len(vals) != 1 {
		t.Errorf("inchikey = %v, want kept", vals)
	}
}

func TestTable_LinkMergesCollidingKeys(t *testing.T) {
	// Map order decides whether SEED or seed.compound is visited first.
	for i := 0; i < 50; i++ {
		tbl := newTable()
		a := make(annotation.Annotations)
		a.Add("SEED", "cpd00001")
		a.Add("seed.compound", "https://identifiers.org/seed.compound:cpd99999")
		tbl.add("M_h2o_c", a)

		tbl.link(annotation.KindCompound, &cli.Logger{Out: &strings.Builder{}})

		got := tbl.byID["M_h2o_c"].Get("seed.compound")
		want := []string{
			"https://identifiers.org/seed.compound:cpd00001",
			"https://identifiers.org/seed.compound:cpd99999",
		}
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Fatalf("run %d: seed.compound = %v, want %v", i, got, want)
		}
	}
}

func TestTable_LinkEvidence(t *testing.T) {
	tbl := newTable()
	a := make(annotation.Annotations)
	a.Add("ECO", "ECO:0000251")
	tbl.add("R_PGI", a)

	tbl.link(annotation.KindReaction, &cli.Logger{Out: &strings.Builder{}})

	got := tbl.byID["R_PGI"].Get("eco")
	if len(got) != 1 || got[0] != "https://identifiers.org/eco/ECO:0000251" {
		t.Errorf("eco = %v", got)
	}
}

func TestTable_AddDoesNotShareInput(t *testing.T) {
	tbl := newTable()
	a := make(annotation.Annotations)
	a.Add("uniprot", "P12345")
	tbl.add("FMG_0001", a)

	a.Add("uniprot", "Q99999")
	if got := tbl.byID["FMG_0001"].Get("uniprot"); len(got) != 1 {
		t.Errorf("uniprot = %v, want only P12345", got)
	}
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { noHead = false })
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	return cmd.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Links(t *testing.T) {
	first := writeFile(t, "first.txt",
		"id\tkey\tvalue\n"+
			"M_h2o_c\tSEED\tcpd00001\n"+
			"M_h2o_c\tinchikey\tXLYOFNOQVPJJNP-UHFFFAOYSA-N\n")
	second := writeFile(t, "second.txt",
		"id\tkey\tvalue\n"+
			"M_atp_c\tBiGG\tatp\n"+
			"M_h2o_c\tseed.compound\thttps://identifiers.org/seed.compound:cpd15275\n"+
			"M_h2o_c\teco\tECO:0000251\n")
	out := filepath.Join(t.TempDir(), "out.txt")

	if err := runRoot(t, "--links=compound", "-o", out, first, second); err != nil {
		t.Fatalf("run error = %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "id\tkey\tvalue\n" +
		"M_h2o_c\teco\thttps://identifiers.org/eco/ECO:0000251\n" +
		"M_h2o_c\tinchikey\tXLYOFNOQVPJJNP-UHFFFAOYSA-N\n" +
		"M_h2o_c\tseed.compound\thttps://identifiers.org/seed.compound:cpd00001::https://identifiers.org/seed.compound:cpd15275\n" +
		"M_atp_c\tbigg.metabolite\thttps://identifiers.org/bigg.metabolite:atp\n"
	if string(b) != want {
		t.Errorf("output =\n%s\nwant\n%s", b, want)
	}
}

func TestRun_DelimAndNoHead(t *testing.T) {
	in := writeFile(t, "in.txt",
		"FMG_0001\trefseq\tWP_2.1,WP_1.1\n"+
			"FMG_0001\trefseq\tWP_3.1\n")
	out := filepath.Join(t.TempDir(), "out.txt")

	if err := runRoot(t, "--nohead", "--delim", "comma", "-o", out, in); err != nil {
		t.Fatalf("run error = %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "id\tkey\tvalue\nFMG_0001\trefseq\tWP_1.1,WP_2.1,WP_3.1\n"
	if string(b) != want {
		t.Errorf("output = %q, want %q", b, want)
	}
}

func TestRun_InvalidLinks(t *testing.T) {
	in := writeFile(t, "in.txt", "id\tkey\tvalue\n")
	if err := runRoot(t, "--links=gene", "-o", filepath.Join(t.TempDir(), "out.txt"), in); err == nil {
		t.Error("run with --links=gene should fail")
	}
}
