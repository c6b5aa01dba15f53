// Package formula compares chemical formulas as written in metabolic models
// and compound databases.
//
// A formula such as "C6H12O6" is split into element tokens: an uppercase
// letter starts a new element, lowercase letters extend its symbol and the
// trailing digits give its count. Tokens without digits count once, so "NaCl"
// becomes [Na1 Cl1].
package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidArgument is returned when Compare is called with no formulas
	// or with a charge list that does not line up with the formulas.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformed is returned for formula strings the tokenizer cannot split.
	ErrMalformed = errors.New("malformed formula")
)

// Hydrogen is the only element whose count is shifted by a charge difference.
const Hydrogen = "H"

// ParseError describes where a formula string could not be tokenized.
type ParseError struct {
	Formula string
	Offset  int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed formula %q at offset %d: %s", e.Formula, e.Offset, e.Reason)
}

// Unwrap lets callers match parse failures with errors.Is(err, ErrMalformed).
func (e *ParseError) Unwrap() error {
	return ErrMalformed
}

// Element is one token of a formula: an element symbol and its count.
type Element struct {
	Symbol string
	Count  int
}

// String returns the token with an explicit count, e.g. "Na1".
func (e Element) String() string {
	return e.Symbol + strconv.Itoa(e.Count)
}

// Formula is the ordered token sequence of a formula string.
type Formula []Element

// String joins the tokens with explicit counts, e.g. "H2O1".
func (f Formula) String() string {
	var sb strings.Builder
	for _, e := range f {
		sb.WriteString(e.String())
	}
	return sb.String()
}

// Contains reports whether the exact token (symbol and count) is in f.
func (f Formula) Contains(e Element) bool {
	for _, x := range f {
		if x == e {
			return true
		}
	}
	return false
}

// Parse tokenizes a formula string.
//
// The input must start with an uppercase ASCII letter and contain only ASCII
// letters and digits; a lowercase letter may not follow a digit. Repeated
// symbols are kept as separate tokens ("CH3COOH" has six).
func Parse(s string) (Formula, error) {
	if s == "" {
		return nil, &ParseError{Formula: s, Reason: "empty formula"}
	}

	var f Formula
	var digits strings.Builder
	flush := func() error {
		if len(f) == 0 {
			return nil
		}
		last := &f[len(f)-1]
		if digits.Len() == 0 {
			last.Count = 1
			return nil
		}
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return err
		}
		last.Count = n
		digits.Reset()
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			if err := flush(); err != nil {
				return nil, &ParseError{Formula: s, Offset: i, Reason: err.Error()}
			}
			f = append(f, Element{Symbol: string(c)})
		case c >= 'a' && c <= 'z':
			if i == 0 {
				return nil, &ParseError{Formula: s, Offset: i, Reason: "formula must start with an uppercase letter"}
			}
			if digits.Len() > 0 {
				return nil, &ParseError{Formula: s, Offset: i, Reason: "lowercase letter after count"}
			}
			f[len(f)-1].Symbol += string(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				return nil, &ParseError{Formula: s, Offset: i, Reason: "formula must start with an uppercase letter"}
			}
			digits.WriteByte(c)
		default:
			return nil, &ParseError{Formula: s, Offset: i, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	if err := flush(); err != nil {
		return nil, &ParseError{Formula: s, Offset: len(s), Reason: err.Error()}
	}
	return f, nil
}

// Compare reports whether all formulas describe the same elements with the
// same counts.
//
// Formulas are checked pairwise in order (formulas[j] against formulas[j+1]),
// not all against all. Every token of formulas[j] must appear verbatim in
// formulas[j+1] and both must have the same number of tokens, so token order
// does not matter.
//
// If charges is non-empty it must have one entry per formula. The hydrogen
// count of formulas[j] is then shifted by charges[j+1]-charges[j] before the
// lookup, which accepts ["H2O", "H3O"] with charges [0, 1]. No other element
// is adjusted.
//
// Malformed formulas are rejected with an error wrapping ErrMalformed rather
// than compared.
func Compare(formulas []string, charges []int) (bool, error) {
	if len(formulas) == 0 {
		return false, fmt.Errorf("%w: no formulas to compare", ErrInvalidArgument)
	}
	if len(charges) > 0 && len(charges) != len(formulas) {
		return false, fmt.Errorf("%w: %d charges for %d formulas", ErrInvalidArgument, len(charges), len(formulas))
	}

	parsed := make([]Formula, len(formulas))
	for i, s := range formulas {
		f, err := Parse(s)
		if err != nil {
			return false, err
		}
		parsed[i] = f
	}

	for j := 0; j < len(parsed)-1; j++ {
		cur, next := parsed[j], parsed[j+1]
		for _, e := range cur {
			if len(charges) > 0 && e.Symbol == Hydrogen {
				e.Count += charges[j+1] - charges[j]
			}
			if !next.Contains(e) {
				return false, nil
			}
		}
		if len(cur) != len(next) {
			return false, nil
		}
	}
	return true, nil
}
