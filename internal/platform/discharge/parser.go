package discharge

import (
	"fmt"

	"github.com/medrelay/discharge/internal/platform/simplified"
)

// Kind identifies a document dialect parser. The set of kinds is closed:
// dispatch is an explicit table, not reflection, so adding a dialect means
// adding a constant and a table entry.
type Kind string

const (
	// KindDefault handles the common hospital discharge summary layout.
	KindDefault Kind = "default"
	// KindSTEMI handles cardiac catheterization / STEMI discharge
	// paperwork, which uses its own section headers.
	KindSTEMI Kind = "stemi"
)

// parserImpl is the uniform shape every kind implements.
type parserImpl struct {
	version           string
	probe             func(text string) bool
	parseSummary      func(text string) *ParsedSummary
	parseInstructions func(text string) *simplified.Instructions
}

var parserTable map[Kind]parserImpl

// The table is filled in init rather than a package-level initializer:
// the parse functions read parserTable for their version tag, and a
// direct initializer would form an initialization cycle.
func init() {
	parserTable = map[Kind]parserImpl{
		KindDefault: {
			version:           "default-v1",
			probe:             probeDefault,
			parseSummary:      parseDefaultSummary,
			parseInstructions: parseDefaultInstructions,
		},
		KindSTEMI: {
			version:           "stemi-v1",
			probe:             probeSTEMI,
			parseSummary:      parseSTEMISummary,
			parseInstructions: parseSTEMIInstructions,
		},
	}
}

// AllKinds returns the registered kinds in a stable order.
func AllKinds() []Kind {
	return []Kind{KindDefault, KindSTEMI}
}

// ParseKind converts a configured identifier into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := parserTable[k]; !ok {
		return "", fmt.Errorf("discharge: unknown parser kind %q", s)
	}
	return k, nil
}

// Valid reports whether the kind is registered.
func (k Kind) Valid() bool {
	_, ok := parserTable[k]
	return ok
}

// Version returns the parser version tag stamped onto results.
func (k Kind) Version() string {
	return parserTable[k].version
}

// Probe is a cheap check for whether this kind is likely able to handle
// the text. A passing probe does not guarantee a non-trivial result; the
// registry still verifies the extraction.
func (k Kind) Probe(text string) bool {
	impl, ok := parserTable[k]
	if !ok {
		return false
	}
	return impl.probe(text)
}

// ParseSummary extracts structured fields from a raw discharge summary.
// It never returns nil and never panics: per-field failures become
// warnings on the result with the 0.5 confidence sentinel.
func (k Kind) ParseSummary(text string) *ParsedSummary {
	impl, ok := parserTable[k]
	if !ok {
		impl = parserTable[KindDefault]
	}
	return impl.parseSummary(text)
}

// ParseInstructions extracts render-ready sections from a raw discharge
// instructions document.
func (k Kind) ParseInstructions(text string) *simplified.Instructions {
	impl, ok := parserTable[k]
	if !ok {
		impl = parserTable[KindDefault]
	}
	return impl.parseInstructions(text)
}
