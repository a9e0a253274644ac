package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/refurbly/gradeserver/pkg/pagination"
	"github.com/refurbly/gradeserver/pkg/query"
	"github.com/refurbly/gradeserver/pkg/repository"
)

// Store persists and retrieves assessment records. The pipeline depends on
// this interface so orchestration tests run against an in-memory fake.
type Store interface {
	Insert(ctx context.Context, a *Assessment) (*Assessment, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Assessment], error)
	Find(ctx context.Context, id uuid.UUID) (*Assessment, error)
}

type store struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewStore creates the PostgreSQL-backed assessment store.
func NewStore(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Store {
	return &store{
		db:         db,
		logger:     logger.With("system", "assessments"),
		pagination: pagination,
	}
}

func (s *store) Insert(ctx context.Context, a *Assessment) (*Assessment, error) {
	damageTypes, err := json.Marshal(a.DamageTypes)
	if err != nil {
		return nil, fmt.Errorf("marshal damage_types: %w", err)
	}

	findings, err := json.Marshal(a.DetailedFindings)
	if err != nil {
		return nil, fmt.Errorf("marshal detailed_findings: %w", err)
	}

	var videoMeta []byte
	if a.VideoMetadata != nil {
		videoMeta, err = json.Marshal(a.VideoMetadata)
		if err != nil {
			return nil, fmt.Errorf("marshal video_metadata: %w", err)
		}
	}

	q := `
		INSERT INTO assessments (id, sku, grade, confidence, overall_condition,
			damage_types, detailed_findings, processing_time_seconds,
			video_metadata, original_file_name, original_content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, sku, grade, confidence, overall_condition, damage_types,
			detailed_findings, processing_time_seconds, video_metadata,
			original_file_name, original_content_type, size_bytes, assessment_date`

	args := []any{
		a.ID, a.SKU, a.Grade, a.Confidence, a.OverallCondition,
		damageTypes, findings, a.ProcessingTimeSeconds,
		videoMeta, a.OriginalFileName, a.OriginalContentType, a.SizeBytes,
	}

	created, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Assessment, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAssessment)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("assessment persisted", "id", created.ID, "sku", created.SKU, "grade", created.Grade)
	return &created, nil
}

func (s *store) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Assessment], error) {
	page.Normalize(s.pagination)

	qb := query.NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SKU", "OverallCondition", "OriginalFileName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *store) Find(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, s.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}
