package dischargedocs

import (
	"time"

	"github.com/google/uuid"

	"github.com/medrelay/discharge/internal/platform/discharge"
	"github.com/medrelay/discharge/internal/platform/simplified"
)

// Review statuses assigned after parsing. Documents whose confidence
// clears the tenant threshold are released automatically; everything else
// waits for a human.
const (
	ReviewAutoApproved = "auto_approved"
	ReviewNeedsReview  = "needs_review"
)

// DischargeDocument maps to the discharge_document table. The raw texts
// are kept verbatim next to their structured decodings so a document can
// be re-parsed after a parser upgrade without re-ingesting.
type DischargeDocument struct {
	ID               uuid.UUID `db:"id" json:"id"`
	PatientRef       *string   `db:"patient_ref" json:"patient_ref,omitempty"`
	Source           *string   `db:"source" json:"source,omitempty"`
	SummaryText      string    `db:"summary_text" json:"summary_text"`
	InstructionsText *string   `db:"instructions_text" json:"instructions_text,omitempty"`

	ParserUsed    bool    `db:"parser_used" json:"parser_used"`
	Parser        *string `db:"parser" json:"parser,omitempty"`
	ParserVersion *string `db:"parser_version" json:"parser_version,omitempty"`
	Confidence    float64 `db:"confidence" json:"confidence"`
	ReviewStatus  string  `db:"review_status" json:"review_status"`

	ParsedSummary      *discharge.ParsedSummary `db:"parsed_summary" json:"parsed_summary,omitempty"`
	ParsedInstructions *simplified.Instructions `db:"parsed_instructions" json:"parsed_instructions,omitempty"`

	// The AI-simplified markup and its decoded form, attached after the
	// upstream simplification step runs.
	SimplifiedSummaryText      *string                  `db:"simplified_summary_text" json:"simplified_summary_text,omitempty"`
	SimplifiedInstructionsText *string                  `db:"simplified_instructions_text" json:"simplified_instructions_text,omitempty"`
	SimplifiedSummary          *simplified.Summary      `db:"simplified_summary" json:"simplified_summary,omitempty"`
	SimplifiedInstructions     *simplified.Instructions `db:"simplified_instructions" json:"simplified_instructions,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParserConfig maps to the shared parser_config table: one row per tenant
// with the ordered candidate parser list.
type ParserConfig struct {
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Parsers   []string  `db:"parsers" json:"parsers"`
	Strict    bool      `db:"strict" json:"strict"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateDocumentInput is the ingestion payload. At least one of the two
// raw texts must be present.
type CreateDocumentInput struct {
	PatientRef       string `json:"patient_ref" validate:"omitempty,max=256"`
	Source           string `json:"source" validate:"omitempty,max=128"`
	SummaryText      string `json:"summary_text" validate:"required_without=InstructionsText"`
	InstructionsText string `json:"instructions_text" validate:"required_without=SummaryText"`
}

// ParseInput is the payload of the stateless parse endpoint.
type ParseInput struct {
	SummaryText      string `json:"summary_text" validate:"required_without=InstructionsText"`
	InstructionsText string `json:"instructions_text" validate:"required_without=SummaryText"`
}

// ParseOutput is the stateless parse result; nothing is persisted.
type ParseOutput struct {
	ParserUsed   bool                     `json:"parser_used"`
	Parser       string                   `json:"parser,omitempty"`
	Confidence   float64                  `json:"confidence"`
	ReviewStatus string                   `json:"review_status"`
	Summary      *discharge.ParsedSummary `json:"summary,omitempty"`
	Instructions *simplified.Instructions `json:"instructions,omitempty"`
}

// AttachSimplifiedInput carries the AI-generated simplified markup for a
// stored document.
type AttachSimplifiedInput struct {
	SummaryText      string `json:"summary_text" validate:"required_without=InstructionsText"`
	InstructionsText string `json:"instructions_text" validate:"required_without=SummaryText"`
}

// UpdateParserConfigInput is the payload of the parser-config endpoint.
type UpdateParserConfigInput struct {
	Parsers []string `json:"parsers" validate:"required,min=1,dive,required"`
	Strict  bool     `json:"strict"`
}
