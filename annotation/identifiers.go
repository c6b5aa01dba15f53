package annotation

import (
	"errors"
	"fmt"
	"strings"
)

// IdentifiersBaseURL is the resolver used for cross-reference links.
const IdentifiersBaseURL = "https://identifiers.org/"

// ErrUnknownDatabase is returned for databases without an identifiers.org prefix.
var ErrUnknownDatabase = errors.New("unknown database")

// Kind selects the namespace of an identifier.
type Kind string

const (
	KindCompound Kind = "compound"
	KindReaction Kind = "reaction"
)

// prefixes maps lowercase database names to identifiers.org prefixes.
var prefixes = map[Kind]map[string]string{
	KindCompound: {
		"bigg":     "bigg.metabolite",
		"seed":     "seed.compound",
		"metacyc":  "metacyc.compound",
		"biocyc":   "metacyc.compound",
		"metanetx": "metanetx.chemical",
		"kegg":     "kegg.compound",
	},
	KindReaction: {
		"bigg":     "bigg.reaction",
		"seed":     "seed.reaction",
		"metacyc":  "metacyc.reaction",
		"biocyc":   "metacyc.reaction",
		"metanetx": "metanetx.reaction",
		"kegg":     "kegg.reaction",
	},
}

// Prefix returns the identifiers.org prefix for a database name. Names are
// matched case-insensitively ("BiGG", "bigg").
func Prefix(kind Kind, database string) (string, error) {
	byName, ok := prefixes[kind]
	if !ok {
		return "", fmt.Errorf("unknown identifier kind %q", kind)
	}
	p, ok := byName[strings.ToLower(database)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDatabase, database)
	}
	return p, nil
}

// IdentifiersURI builds the identifiers.org link of a database entry, e.g.
// "https://identifiers.org/seed.compound:cpd00001".
func IdentifiersURI(kind Kind, database, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("empty %s identifier", database)
	}
	p, err := Prefix(kind, database)
	if err != nil {
		return "", err
	}
	return IdentifiersBaseURL + p + ":" + id, nil
}

// ECOURI builds the link of an Evidence and Conclusion Ontology term.
func ECOURI(code string) string {
	return IdentifiersBaseURL + "eco/" + code
}
