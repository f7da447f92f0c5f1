package dischargedocs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medrelay/discharge/internal/platform/db"
	"github.com/medrelay/discharge/internal/platform/discharge"
	"github.com/medrelay/discharge/internal/platform/simplified"
)

// Service runs raw discharge texts through the parser registry and owns
// the stored documents' lifecycle: ingest, reparse, simplified-markup
// attachment, and per-tenant parser configuration.
type Service struct {
	docs      Repository
	cfgs      ParserConfigRepository
	registry  *discharge.Registry
	threshold float64
}

func NewService(docs Repository, cfgs ParserConfigRepository, registry *discharge.Registry, confidenceThreshold float64) *Service {
	return &Service{docs: docs, cfgs: cfgs, registry: registry, threshold: confidenceThreshold}
}

// Ingest parses the raw texts for the tenant on the context and persists
// the document together with its structured decoding. A document that no
// parser could extract anything from is still stored, flagged for review,
// so its raw text remains displayable.
func (s *Service) Ingest(ctx context.Context, in CreateDocumentInput) (*DischargeDocument, error) {
	doc := &DischargeDocument{
		PatientRef:       optStr(in.PatientRef),
		Source:           optStr(in.Source),
		SummaryText:      in.SummaryText,
		InstructionsText: optStr(in.InstructionsText),
	}
	s.applyParse(doc, db.TenantFromContext(ctx))

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("store discharge document: %w", err)
	}
	return doc, nil
}

// Reparse re-runs the current parser registry over a stored document's
// raw texts, refreshing its structured fields, confidence, and review
// status in place.
func (s *Service) Reparse(ctx context.Context, id uuid.UUID) (*DischargeDocument, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.applyParse(doc, db.TenantFromContext(ctx))
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update discharge document: %w", err)
	}
	return doc, nil
}

func (s *Service) applyParse(doc *DischargeDocument, tenantID string) {
	res := s.registry.Parse(tenantID, doc.SummaryText, strVal(doc.InstructionsText))

	doc.ParserUsed = res.ParserUsed
	doc.Parser = nil
	doc.ParserVersion = nil
	doc.Confidence = 0
	doc.ParsedSummary = nil
	doc.ParsedInstructions = nil

	if res.ParserUsed {
		parser := string(res.Parser)
		version := res.Parser.Version()
		doc.Parser = &parser
		doc.ParserVersion = &version
		doc.ParsedSummary = res.Summary
		doc.ParsedInstructions = res.Instructions
		if res.Summary != nil {
			doc.Confidence = res.Summary.Confidence
		}
	}
	doc.ReviewStatus = s.reviewStatus(doc)
}

// reviewStatus routes a parsed document: results at or above the
// confidence threshold are released automatically, everything else is
// queued for human review.
func (s *Service) reviewStatus(doc *DischargeDocument) string {
	if !doc.ParserUsed || doc.Confidence < s.threshold {
		return ReviewNeedsReview
	}
	return ReviewAutoApproved
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DischargeDocument, error) {
	return s.docs.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*DischargeDocument, int, error) {
	return s.docs.List(ctx, filter, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.docs.Delete(ctx, id)
}

// Parse runs the registry without persisting anything. Used by upstream
// systems to preview extraction quality before ingesting.
func (s *Service) Parse(ctx context.Context, in ParseInput) ParseOutput {
	res := s.registry.Parse(db.TenantFromContext(ctx), in.SummaryText, in.InstructionsText)

	out := ParseOutput{ParserUsed: res.ParserUsed, ReviewStatus: ReviewNeedsReview}
	if res.ParserUsed {
		out.Parser = string(res.Parser)
		out.Summary = res.Summary
		out.Instructions = res.Instructions
		if res.Summary != nil {
			out.Confidence = res.Summary.Confidence
		}
		if out.Confidence >= s.threshold {
			out.ReviewStatus = ReviewAutoApproved
		}
	}
	return out
}

// AttachSimplified stores AI-generated simplified markup on a document
// and decodes it into render-ready sections. Decoding never fails: markup
// with no recognizable structure is carried through in the Raw fields.
func (s *Service) AttachSimplified(ctx context.Context, id uuid.UUID, in AttachSimplifiedInput) (*DischargeDocument, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.SummaryText != "" {
		doc.SimplifiedSummaryText = &in.SummaryText
		sum := simplified.ParseSummary(in.SummaryText)
		doc.SimplifiedSummary = &sum
	}
	if in.InstructionsText != "" {
		doc.SimplifiedInstructionsText = &in.InstructionsText
		instr := simplified.ParseInstructions(in.InstructionsText)
		doc.SimplifiedInstructions = &instr
	}

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("attach simplified markup: %w", err)
	}
	return doc, nil
}

// ParserConfigFor returns the tenant's stored configuration, or the
// registry defaults when none has been saved.
func (s *Service) ParserConfigFor(ctx context.Context, tenantID string) (*ParserConfig, error) {
	cfg, err := s.cfgs.Get(ctx, tenantID)
	if err == nil {
		return cfg, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	eff := s.registry.ConfigFor(tenantID)
	out := &ParserConfig{TenantID: tenantID}
	for _, k := range eff.Parsers {
		out.Parsers = append(out.Parsers, string(k))
	}
	return out, nil
}

// UpdateParserConfig validates and persists a tenant's candidate parser
// order, then reloads the registry snapshot so the change takes effect
// immediately on all in-flight traffic.
func (s *Service) UpdateParserConfig(ctx context.Context, tenantID string, in UpdateParserConfigInput) (*ParserConfig, error) {
	for _, p := range in.Parsers {
		if _, err := discharge.ParseKind(p); err != nil {
			return nil, err
		}
	}

	cfg := &ParserConfig{TenantID: tenantID, Parsers: in.Parsers, Strict: in.Strict}
	if err := s.cfgs.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("store parser config: %w", err)
	}
	if err := s.ReloadParserConfigs(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReloadParserConfigs rebuilds the registry's tenant snapshot from the
// shared parser_config table. Called at startup and after every config
// write.
func (s *Service) ReloadParserConfigs(ctx context.Context) error {
	all, err := s.cfgs.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load parser configs: %w", err)
	}

	tenants := make(map[string]discharge.TenantConfig, len(all))
	for _, cfg := range all {
		var kinds []discharge.Kind
		for _, p := range cfg.Parsers {
			k, err := discharge.ParseKind(p)
			if err != nil {
				// Skip kinds persisted by an older build; the rest of
				// the tenant's order still applies.
				continue
			}
			kinds = append(kinds, k)
		}
		tenants[cfg.TenantID] = discharge.TenantConfig{Parsers: kinds, Strict: cfg.Strict}
	}
	s.registry.Configure(tenants)
	return nil
}

func optStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func strVal(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
