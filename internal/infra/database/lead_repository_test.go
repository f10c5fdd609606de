package database_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xikelabs/lead-tracker/internal/entity"
	"github.com/xikelabs/lead-tracker/internal/infra/database"
)

var leadCols = []string{
	"id", "name", "category", "acp", "location", "area",
	"instagram_account", "competitor_apps_discount", "branches", "image_url",
	"stage", "status", "added_by", "assigned_to", "approved_by", "response_rating",
	"timeline", "created_at", "updated_at",
}

func sampleRow(now time.Time) []driver.Value {
	return []driver.Value{
		"lead-1", "Acme Cafe", []byte(`{Cafe,Bakery}`), 12000.0, "Pune", "Koregaon Park",
		nil, nil, nil, nil,
		"To Pitch", "Active", "sanskar@xike.in", "utkarsh@xike.in", nil, 4.5,
		[]byte(`[{"timestamp":"2026-01-02T10:00:00Z","description":"created"}]`), now, now,
	}
}

func TestLeadRepositoryFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM leads WHERE id = \$1`).
		WithArgs("lead-1").
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow(sampleRow(now)...))

	repo := database.NewLeadRepository(db)
	lead, err := repo.FindByID(context.Background(), "lead-1")

	require.NoError(t, err)
	assert.Equal(t, "Acme Cafe", lead.Name)
	assert.Equal(t, []string{"Cafe", "Bakery"}, lead.Category)
	assert.Equal(t, entity.StageToPitch, lead.Stage)
	assert.Equal(t, "utkarsh@xike.in", lead.AssignedTo)
	require.NotNil(t, lead.ResponseRating)
	assert.Equal(t, 4.5, *lead.ResponseRating)
	require.Len(t, lead.Timeline, 1)
	assert.Equal(t, "created", lead.Timeline[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(leadCols))

	repo := database.NewLeadRepository(db)
	_, err = repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryUpdateIsSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	stage := entity.StageToPitch
	assignee := "utkarsh@xike.in"
	approver := "uday.krishna@xike.in"

	// stage, assignee, approver and the replaced timeline all travel in the
	// same UPDATE
	mock.ExpectQuery(`UPDATE leads SET updated_at = NOW\(\), stage = \$1, assigned_to = \$2, approved_by = \$3, timeline = \$4 WHERE id = \$5 RETURNING`).
		WithArgs("To Pitch", assignee, approver, sqlmock.AnyArg(), "lead-1").
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow(sampleRow(now)...))

	repo := database.NewLeadRepository(db)
	lead, err := repo.Update(context.Background(), "lead-1", entity.LeadUpdate{
		Stage:      &stage,
		AssignedTo: &assignee,
		ApprovedBy: &approver,
		Timeline:   []entity.TimelineEntry{{Timestamp: now, Description: "approved"}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StageToPitch, lead.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE leads SET (.+) WHERE id = (.+) RETURNING`).
		WillReturnRows(sqlmock.NewRows(leadCols))

	repo := database.NewLeadRepository(db)
	timeline := []entity.TimelineEntry{{Description: "x"}}
	_, err = repo.Update(context.Background(), "missing", entity.LeadUpdate{Timeline: timeline})

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO leads`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	lead, err := entity.NewLead("Acme Cafe", []string{"Cafe"}, 12000, "Pune", "Koregaon Park", "sanskar@xike.in")
	require.NoError(t, err)

	repo := database.NewLeadRepository(db)
	require.NoError(t, repo.Insert(context.Background(), lead))

	assert.Equal(t, now, lead.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM leads WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := database.NewLeadRepository(db)
	err = repo.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}
