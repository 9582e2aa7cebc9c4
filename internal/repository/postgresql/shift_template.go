package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rosterly/rostering-backend-go/internal/domain/roster"
	"github.com/rosterly/rostering-backend-go/internal/pkg/database"
)

type shiftTemplateRepositoryImpl struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) roster.TemplateRepository {
	return &shiftTemplateRepositoryImpl{db: db}
}

const shiftTemplateColumns = `
	st.id,
	st.company_id,
	st.location_id,
	st.name,
	st.start_time,
	st.end_time,
	st.priority,
	st.is_active,
	st.ideal_employees,
	st.created_at,
	st.updated_at,
	st.deleted_at,
	COALESCE(
		(
			SELECT json_agg(json_build_object(
				'position', pr.position,
				'required_count', pr.required_count,
				'ideal_count', pr.ideal_count
			) ORDER BY pr.position)
			FROM shift_template_position_requirements pr
			WHERE pr.shift_template_id = st.id
		),
		'[]'::json
	) AS position_requirements,
	COALESCE(
		(
			SELECT json_agg(json_build_object(
				'language', lr.language,
				'required_count', lr.required_count
			) ORDER BY lr.language)
			FROM shift_template_language_requirements lr
			WHERE lr.shift_template_id = st.id
		),
		'[]'::json
	) AS language_requirements`

func (r *shiftTemplateRepositoryImpl) GetByID(ctx context.Context, id string) (roster.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shift_templates st
		WHERE st.id = $1 AND st.deleted_at IS NULL
	`, shiftTemplateColumns)

	tpl, err := scanShiftTemplate(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.ShiftTemplate{}, roster.ErrShiftTemplateNotFound
		}
		return roster.ShiftTemplate{}, fmt.Errorf("get shift template: %w", err)
	}
	return tpl, nil
}

func (r *shiftTemplateRepositoryImpl) ActiveForLocation(ctx context.Context, locationID string) ([]roster.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM shift_templates st
		WHERE st.location_id = $1
		  AND st.is_active = TRUE
		  AND st.deleted_at IS NULL
		ORDER BY st.priority ASC NULLS LAST, st.start_time ASC, st.id ASC
	`, shiftTemplateColumns)

	rows, err := q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list active shift templates: %w", err)
	}
	defer rows.Close()

	var templates []roster.ShiftTemplate
	for rows.Next() {
		tpl, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift template: %w", err)
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func scanShiftTemplate(row pgx.Row) (roster.ShiftTemplate, error) {
	var (
		tpl          roster.ShiftTemplate
		positionJSON []byte
		languageJSON []byte
	)
	err := row.Scan(
		&tpl.ID,
		&tpl.CompanyID,
		&tpl.LocationID,
		&tpl.Name,
		&tpl.StartTime,
		&tpl.EndTime,
		&tpl.Priority,
		&tpl.IsActive,
		&tpl.IdealEmployeesOverride,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
		&tpl.DeletedAt,
		&positionJSON,
		&languageJSON,
	)
	if err != nil {
		return roster.ShiftTemplate{}, err
	}

	var positions []struct {
		Position      string `json:"position"`
		RequiredCount int    `json:"required_count"`
		IdealCount    int    `json:"ideal_count"`
	}
	if err := json.Unmarshal(positionJSON, &positions); err != nil {
		return roster.ShiftTemplate{}, fmt.Errorf("decode position requirements: %w", err)
	}
	for _, p := range positions {
		tpl.PositionRequirements = append(tpl.PositionRequirements, roster.PositionRequirement{
			Position:      p.Position,
			RequiredCount: p.RequiredCount,
			IdealCount:    p.IdealCount,
		})
	}

	var languages []struct {
		Language      string `json:"language"`
		RequiredCount int    `json:"required_count"`
	}
	if err := json.Unmarshal(languageJSON, &languages); err != nil {
		return roster.ShiftTemplate{}, fmt.Errorf("decode language requirements: %w", err)
	}
	for _, l := range languages {
		tpl.LanguageRequirements = append(tpl.LanguageRequirements, roster.LanguageRequirement{
			Language:      l.Language,
			RequiredCount: l.RequiredCount,
		})
	}

	return tpl, nil
}
