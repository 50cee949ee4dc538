package ids

import (
	"fmt"
	"strings"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// PMCPrefix starts every PubMed Central identifier.
const PMCPrefix = "PMC"

// Kind is the coarse shape of an identifier
type Kind int

const (
	// KindOther covers PMIDs, DOIs and anything else without the PMC prefix
	KindOther Kind = iota
	// KindPMC is a PubMed Central identifier
	KindPMC
)

func (k Kind) String() string {
	if k == KindPMC {
		return "PMC"
	}
	return "OTHER"
}

// Classify returns KindPMC iff id starts with "PMC".
func Classify(id string) Kind {
	if strings.HasPrefix(id, PMCPrefix) {
		return KindPMC
	}
	return KindOther
}

// IsDOI reports whether id looks like a DOI. DOIs contain a slash,
// PMIDs and PMCIDs never do.
func IsDOI(id string) bool {
	return strings.Contains(id, "/")
}

// IDType is a target identifier namespace for translation
type IDType int

const (
	PMID IDType = iota + 1
	PMCID
	DOI
)

var idTypeNames = map[IDType]string{
	PMID:  "PMID",
	PMCID: "PMCID",
	DOI:   "DOI",
}

// IDTypes lists the supported identifier types.
func IDTypes() []IDType {
	return []IDType{PMID, PMCID, DOI}
}

func (t IDType) String() string {
	if name, ok := idTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("IDType(%d)", int(t))
}

// Valid reports whether t is one of the supported types.
func (t IDType) Valid() bool {
	_, ok := idTypeNames[t]
	return ok
}

// ParseIDType parses "PMID", "PMCID" or "DOI". Matching is case-sensitive.
func ParseIDType(s string) (IDType, error) {
	for t, name := range idTypeNames {
		if s == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q (want PMID, PMCID or DOI): %w", s, internalerr.ErrUnsupportedIDType)
}
