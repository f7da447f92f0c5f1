package discharge

import (
	"sync/atomic"

	"github.com/medrelay/discharge/internal/platform/simplified"
)

// TenantConfig is one tenant's parser configuration: the ordered candidate
// kinds plus free-form settings.
type TenantConfig struct {
	Parsers []Kind `json:"parsers"`
	Strict  bool   `json:"strict"`
}

// Result is the outcome of a registry parse. ParserUsed is false if and
// only if no candidate produced any structured field, in which case both
// payloads are nil and callers fall back to displaying raw text.
type Result struct {
	ParserUsed   bool
	Parser       Kind
	Summary      *ParsedSummary
	Instructions *simplified.Instructions
}

// Registry maps tenants to their ordered candidate parsers. The tenant
// table is an immutable snapshot swapped atomically on reload, so readers
// never observe a partially-updated configuration. Parsing itself is pure;
// the registry is safe for unbounded concurrent use.
type Registry struct {
	defaults []Kind
	tenants  atomic.Pointer[map[string]TenantConfig]
}

// NewRegistry creates a registry whose unconfigured tenants use the global
// default candidate order (STEMI probed first, default as catch-all).
func NewRegistry() *Registry {
	r := &Registry{defaults: []Kind{KindSTEMI, KindDefault}}
	empty := map[string]TenantConfig{}
	r.tenants.Store(&empty)
	return r
}

// Configure replaces the whole tenant table with a fresh snapshot. The
// input map is copied; later mutation by the caller cannot affect readers.
func (r *Registry) Configure(tenants map[string]TenantConfig) {
	snapshot := make(map[string]TenantConfig, len(tenants))
	for id, cfg := range tenants {
		snapshot[id] = TenantConfig{
			Parsers: append([]Kind(nil), cfg.Parsers...),
			Strict:  cfg.Strict,
		}
	}
	r.tenants.Store(&snapshot)
}

// ConfigFor returns the effective configuration for a tenant.
func (r *Registry) ConfigFor(tenantID string) TenantConfig {
	if cfg, ok := (*r.tenants.Load())[tenantID]; ok && len(cfg.Parsers) > 0 {
		return cfg
	}
	return TenantConfig{Parsers: append([]Kind(nil), r.defaults...)}
}

// Parse runs the tenant's candidate parsers in configured order over the
// raw summary and instructions text. The first candidate whose extraction
// yields at least one structured field wins and iteration stops; this is
// an at-most-one-success, first-match policy, not a best-of-N selection.
// When two configured candidates could both plausibly handle an ambiguous
// document, the earlier one wins by definition.
func (r *Registry) Parse(tenantID, summaryText, instructionsText string) Result {
	cfg := r.ConfigFor(tenantID)

	for _, kind := range cfg.Parsers {
		if !kind.Valid() {
			continue
		}
		if !kind.Probe(summaryText) && !kind.Probe(instructionsText) {
			continue
		}

		var summary *ParsedSummary
		if summaryText != "" {
			summary = kind.ParseSummary(summaryText)
		}
		var instructions *simplified.Instructions
		if instructionsText != "" {
			instructions = kind.ParseInstructions(instructionsText)
		}

		if summary.HasStructuredData() || instructions.HasStructuredData() {
			return Result{
				ParserUsed:   true,
				Parser:       kind,
				Summary:      summary,
				Instructions: instructions,
			}
		}
	}

	return Result{}
}
