package formula

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
		n     int
	}{
		{"H2O", "H2O1", 2},
		{"NaCl", "Na1Cl1", 2},
		{"Mg12Ag2", "Mg12Ag2", 2},
		{"C6H12O6", "C6H12O6", 3},
		{"He", "He1", 1},
		{"CH3COOH", "C1H3C1O1O1H1", 6},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if len(f) != tt.n {
				t.Errorf("len(Parse(%q)) = %d, want %d", tt.input, len(f), tt.n)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Uppercase(t *testing.T) {
	// Each uppercase letter starts a new element.
	f, err := Parse("MG12AG2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Formula{{"M", 1}, {"G", 12}, {"A", 1}, {"G", 2}}
	if len(f) != len(want) {
		t.Fatalf("len(f) = %d, want %d", len(f), len(want))
	}
	for i := range want {
		if f[i] != want[i] {
			t.Errorf("f[%d] = %v, want %v", i, f[i], want[i])
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"", 0},
		{"h2o", 0},
		{"2H", 0},
		{"H2e", 2},
		{"C6H5(OH)", 4},
		{"H2O ", 3},
		{"*", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformed", tt.input, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error is not a *ParseError", tt.input)
			}
			if pe.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", pe.Offset, tt.offset)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		formulas []string
		charges  []int
		want     bool
	}{
		{"identical", []string{"H2O", "H2O"}, nil, true},
		{"order irrelevant", []string{"H2O", "OH2"}, nil, true},
		{"different counts", []string{"H2O", "H2O2"}, nil, false},
		{"implicit counts", []string{"NaCl", "ClNa"}, nil, true},
		{"charge explains hydrogen", []string{"H2O", "H3O"}, []int{0, 1}, true},
		{"no charge difference", []string{"H2O", "H3O"}, []int{0, 0}, false},
		{"hydrogen without charges", []string{"H2O", "H3O"}, nil, false},
		{"multi-digit counts", []string{"Mg12Ag2", "Ag2Mg12"}, nil, true},
		{"single formula", []string{"C6H12O6"}, nil, true},
		{"extra element", []string{"CO2", "CO2N"}, nil, false},
		{"missing element", []string{"CO2N", "CO2"}, nil, false},
		{"helium not adjusted", []string{"He2", "He3"}, []int{0, 1}, false},
		{"hafnium not adjusted", []string{"Hf1", "Hf2"}, []int{0, 1}, false},
		{"negative charge shift", []string{"C2H4O2", "C2H3O2"}, []int{0, -1}, true},
		{"implicit hydrogen shifted", []string{"HCl", "H2Cl"}, []int{-1, 0}, true},
		{"three formulas", []string{"CO2", "O2C", "CO2"}, nil, true},
		{"three formulas last differs", []string{"CO2", "O2C", "CO"}, nil, false},
		{"three formulas with charges", []string{"H2O", "H3O", "H4O"}, []int{0, 1, 2}, true},
		{"zero charge is still a charge", []string{"H3O", "H2O"}, []int{0, -1}, true},
		{"hydrogen shifted to zero", []string{"H2O", "O"}, []int{0, -2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.formulas, tt.charges)
			if err != nil {
				t.Fatalf("Compare(%v, %v) error = %v", tt.formulas, tt.charges, err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v, %v) = %v, want %v", tt.formulas, tt.charges, got, tt.want)
			}
		})
	}
}

func TestCompare_Reflexive(t *testing.T) {
	formulas := []string{"H2O", "C6H12O6", "NaCl", "Mg12Ag2", "CH3COOH", "He", "C10H16N5O13P3"}
	for _, f := range formulas {
		got, err := Compare([]string{f, f}, nil)
		if err != nil {
			t.Fatalf("Compare(%q, %q) error = %v", f, f, err)
		}
		if !got {
			t.Errorf("Compare(%q, %q) = false, want true", f, f)
		}

		got, err = Compare([]string{f, f}, []int{-2, -2})
		if err != nil {
			t.Fatalf("Compare(%q, %q) with charges error = %v", f, f, err)
		}
		if !got {
			t.Errorf("Compare(%q, %q) with equal charges = false, want true", f, f)
		}
	}
}

func TestCompare_Idempotent(t *testing.T) {
	formulas := []string{"H2O", "H3O"}
	charges := []int{0, 1}

	first, err := Compare(formulas, charges)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	second, err := Compare(formulas, charges)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if first != second {
		t.Errorf("Compare() = %v then %v", first, second)
	}
	if formulas[0] != "H2O" || charges[0] != 0 {
		t.Errorf("Compare() modified its arguments: %v %v", formulas, charges)
	}
}

func TestCompare_InvalidArgument(t *testing.T) {
	tests := []struct {
		name     string
		formulas []string
		charges  []int
	}{
		{"no formulas", nil, nil},
		{"empty formulas", []string{}, []int{}},
		{"too few charges", []string{"H2O", "H3O"}, []int{0}},
		{"too many charges", []string{"H2O", "H3O"}, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.formulas, tt.charges)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Compare() error = %v, want ErrInvalidArgument", err)
			}
			if got {
				t.Error("Compare() = true on invalid argument")
			}
		})
	}
}

func TestCompare_Malformed(t *testing.T) {
	got, err := Compare([]string{"H2O", "h2o"}, nil)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Compare() error = %v, want ErrMalformed", err)
	}
	if got {
		t.Error("Compare() = true for malformed formula")
	}
}

func TestFormula_Contains(t *testing.T) {
	f := Formula{{"H", 2}, {"O", 1}}
	if !f.Contains(Element{"H", 2}) {
		t.Error("Contains(H2) = false")
	}
	if f.Contains(Element{"H", 1}) {
		t.Error("Contains(H1) = true")
	}
	if f.Contains(Element{"He", 2}) {
		t.Error("Contains(He2) = true")
	}
}
