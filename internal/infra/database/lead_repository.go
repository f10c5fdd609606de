package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/xikelabs/lead-tracker/internal/entity"
)

const leadColumns = `id, name, category, acp, location, area,
		instagram_account, competitor_apps_discount, branches, image_url,
		stage, status, added_by, assigned_to, approved_by, response_rating,
		timeline, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at DESC`, leadColumns)

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	timeline, err := json.Marshal(lead.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (
			id, name, category, acp, location, area,
			instagram_account, competitor_apps_discount, branches, image_url,
			stage, status, added_by, timeline, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.Name,
		pq.Array(lead.Category),
		lead.ACP,
		lead.Location,
		lead.Area,
		nullString(lead.InstagramAccount),
		nullString(lead.CompetitorAppsDiscount),
		nullString(lead.Branches),
		nullString(lead.ImageURL),
		string(lead.Stage),
		string(lead.Status),
		lead.AddedBy,
		timeline,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt)
}

// Update applies every changed field in one UPDATE statement. Stage change
// and timeline replacement ride the same write, which is what keeps a
// transition atomic against concurrent actors.
func (r *LeadRepository) Update(ctx context.Context, id string, update entity.LeadUpdate) (*entity.Lead, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.Stage != nil {
		set = append(set, "stage = "+arg(string(*update.Stage)))
	}
	if update.Status != nil {
		set = append(set, "status = "+arg(string(*update.Status)))
	}
	if update.AssignedTo != nil {
		set = append(set, "assigned_to = "+arg(*update.AssignedTo))
	}
	if update.ApprovedBy != nil {
		set = append(set, "approved_by = "+arg(*update.ApprovedBy))
	}
	if update.ResponseRating != nil {
		set = append(set, "response_rating = "+arg(*update.ResponseRating))
	}
	if update.Timeline != nil {
		timeline, err := json.Marshal(update.Timeline)
		if err != nil {
			return nil, err
		}
		set = append(set, "timeline = "+arg(timeline))
	}

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = %s RETURNING %s`,
		strings.Join(set, ", "), arg(id), leadColumns)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var instagram, discount, branches, imageURL, assignedTo, approvedBy sql.NullString
	var rating sql.NullFloat64
	var timeline []byte

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		pq.Array(&lead.Category),
		&lead.ACP,
		&lead.Location,
		&lead.Area,
		&instagram,
		&discount,
		&branches,
		&imageURL,
		&lead.Stage,
		&lead.Status,
		&lead.AddedBy,
		&assignedTo,
		&approvedBy,
		&rating,
		&timeline,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.InstagramAccount = instagram.String
	lead.CompetitorAppsDiscount = discount.String
	lead.Branches = branches.String
	lead.ImageURL = imageURL.String
	lead.AssignedTo = assignedTo.String
	lead.ApprovedBy = approvedBy.String
	if rating.Valid {
		lead.ResponseRating = &rating.Float64
	}

	lead.Timeline = []entity.TimelineEntry{}
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &lead.Timeline); err != nil {
			return nil, fmt.Errorf("corrupt timeline for lead %s: %w", lead.ID, err)
		}
	}

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
