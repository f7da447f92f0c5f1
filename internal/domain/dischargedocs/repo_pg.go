package dischargedocs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrelay/discharge/internal/platform/db"
)

// ErrNotFound is returned when a document does not exist in the tenant's
// schema.
var ErrNotFound = errors.New("discharge document not found")

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

// conn prefers the tenant-scoped connection placed on the context by the
// tenant middleware, so every query runs inside the tenant's search_path.
func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const docCols = `id, patient_ref, source, summary_text, instructions_text,
	parser_used, parser, parser_version, confidence, review_status,
	parsed_summary, parsed_instructions,
	simplified_summary_text, simplified_instructions_text,
	simplified_summary, simplified_instructions,
	created_at, updated_at`

func scanDoc(row pgx.Row) (*DischargeDocument, error) {
	var d DischargeDocument
	err := row.Scan(&d.ID, &d.PatientRef, &d.Source, &d.SummaryText, &d.InstructionsText,
		&d.ParserUsed, &d.Parser, &d.ParserVersion, &d.Confidence, &d.ReviewStatus,
		&d.ParsedSummary, &d.ParsedInstructions,
		&d.SimplifiedSummaryText, &d.SimplifiedInstructionsText,
		&d.SimplifiedSummary, &d.SimplifiedInstructions,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *DischargeDocument) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO discharge_document (id, patient_ref, source, summary_text, instructions_text,
			parser_used, parser, parser_version, confidence, review_status,
			parsed_summary, parsed_instructions,
			simplified_summary_text, simplified_instructions_text,
			simplified_summary, simplified_instructions)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		d.ID, d.PatientRef, d.Source, d.SummaryText, d.InstructionsText,
		d.ParserUsed, d.Parser, d.ParserVersion, d.Confidence, d.ReviewStatus,
		d.ParsedSummary, d.ParsedInstructions,
		d.SimplifiedSummaryText, d.SimplifiedInstructionsText,
		d.SimplifiedSummary, d.SimplifiedInstructions)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DischargeDocument, error) {
	return scanDoc(r.conn(ctx).QueryRow(ctx, `SELECT `+docCols+` FROM discharge_document WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *DischargeDocument) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE discharge_document SET
			patient_ref=$2, source=$3,
			parser_used=$4, parser=$5, parser_version=$6, confidence=$7, review_status=$8,
			parsed_summary=$9, parsed_instructions=$10,
			simplified_summary_text=$11, simplified_instructions_text=$12,
			simplified_summary=$13, simplified_instructions=$14,
			updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.PatientRef, d.Source,
		d.ParserUsed, d.Parser, d.ParserVersion, d.Confidence, d.ReviewStatus,
		d.ParsedSummary, d.ParsedInstructions,
		d.SimplifiedSummaryText, d.SimplifiedInstructionsText,
		d.SimplifiedSummary, d.SimplifiedInstructions)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM discharge_document WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*DischargeDocument, int, error) {
	where, args := buildListWhere(filter)

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM discharge_document`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM discharge_document%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		docCols, where, len(args)-1, len(args))
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DischargeDocument
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func buildListWhere(filter ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if filter.PatientRef != "" {
		args = append(args, filter.PatientRef)
		clauses = append(clauses, fmt.Sprintf("patient_ref = $%d", len(args)))
	}
	if filter.ReviewStatus != "" {
		args = append(args, filter.ReviewStatus)
		clauses = append(clauses, fmt.Sprintf("review_status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// parser_config lives in the shared schema: parser selection is
// cross-tenant administrative data loaded into one registry snapshot, so
// the repository always queries through the pool rather than a
// tenant-scoped connection.

type parserConfigRepoPG struct{ pool *pgxpool.Pool }

func NewParserConfigRepoPG(pool *pgxpool.Pool) ParserConfigRepository {
	return &parserConfigRepoPG{pool: pool}
}

func (r *parserConfigRepoPG) Get(ctx context.Context, tenantID string) (*ParserConfig, error) {
	var cfg ParserConfig
	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, parsers, strict, updated_at FROM shared.parser_config WHERE tenant_id = $1`,
		tenantID).Scan(&cfg.TenantID, &cfg.Parsers, &cfg.Strict, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *parserConfigRepoPG) Upsert(ctx context.Context, cfg *ParserConfig) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shared.parser_config (tenant_id, parsers, strict)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id) DO UPDATE SET parsers = $2, strict = $3, updated_at = NOW()`,
		cfg.TenantID, cfg.Parsers, cfg.Strict)
	return err
}

func (r *parserConfigRepoPG) ListAll(ctx context.Context) ([]*ParserConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tenant_id, parsers, strict, updated_at FROM shared.parser_config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*ParserConfig
	for rows.Next() {
		var cfg ParserConfig
		if err := rows.Scan(&cfg.TenantID, &cfg.Parsers, &cfg.Strict, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, &cfg)
	}
	return configs, rows.Err()
}
