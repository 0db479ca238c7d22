package cahiers

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewSQLRepository(db), mock, db
}

var cols = []string{"id", "user_id", "evenement", "redacteur", "poste", "frequence", "responsable", "archived", "created_at", "updated_at"}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+cahiers_de_veille.*RETURNING\s+id$`).
		WithArgs("u-1", "Marathon", "Dupont", "P1", "155.1", "Martin", false, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	c := &models.Cahier{UserID: "u-1", Evenement: "Marathon", Redacteur: "Dupont", Poste: "P1",
		Frequence: "155.1", Responsable: "Martin", CreatedAt: now, UpdatedAt: now}
	got, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT`).WillReturnError(errors.New("down"))

	_, err := repo.Create(context.Background(), &models.Cahier{})
	assert.ErrorContains(t, err, "db error: down")
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+cahiers_de_veille\s+SET\s+evenement\s*=\s*\$1.*WHERE\s+id\s*=\s*\$7\s+AND\s+user_id\s*=\s*\$8$`
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &models.Cahier{ID: 1, UserID: "u-1"}))
	err := repo.Update(context.Background(), &models.Cahier{ID: 1, UserID: "intruder"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id.*FROM\s+cahiers_de_veille\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	now := time.Now().UTC()
	mock.ExpectQuery(q).WithArgs(int64(3), "u-1").WillReturnRows(
		sqlmock.NewRows(cols).AddRow(int64(3), "u-1", "Ev", "R", "P", "F", "Resp", false, now, now))
	mock.ExpectQuery(q).WithArgs(int64(3), "u-2").WillReturnError(sql.ErrNoRows)

	c, err := repo.Get(context.Background(), 3, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ev", c.Evenement)
	assert.False(t, c.Archived)

	_, err = repo.Get(context.Background(), 3, "u-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)WHERE\s+user_id\s*=\s*\$1\s+AND\s+archived\s*=\s*\$2\s+ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("u-1", false).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), "u-1", "B", "", "", "", "", false, now, now).
			AddRow(int64(1), "u-1", "A", "", "", "", "", false, now.Add(-time.Hour), now))

	got, err := repo.List(context.Background(), "u-1", false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Evenement)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background(), "u-1", true)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := repo.List(context.Background(), "u-1", false)
	assert.ErrorContains(t, err, "db error")
}

func TestArchive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now().UTC()
	q := `(?s)^UPDATE\s+cahiers_de_veille\s+SET\s+archived\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3\s+AND\s+user_id\s*=\s*\$4$`
	mock.ExpectExec(q).WithArgs(true, at, int64(5), "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(true, at, int64(6), "u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WillReturnError(errors.New("down"))

	require.NoError(t, repo.Archive(context.Background(), 5, "u-1", at))
	assert.ErrorIs(t, repo.Archive(context.Background(), 6, "u-1", at), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Archive(context.Background(), 7, "u-1", at), "db error")
}

func TestCountActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+cahiers_de_veille`).
		WithArgs("u-1", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountActive(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRecentAndCreatedSince(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -30)

	mock.ExpectQuery(`(?s)ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+\$3$`).
		WithArgs("u-1", false, 5).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "u-1", "A", "", "", "", "", false, now, now))
	mock.ExpectQuery(`(?s)created_at\s*>=\s*\$3\s+ORDER\s+BY\s+created_at\s+ASC`).
		WithArgs("u-1", false, since).
		WillReturnRows(sqlmock.NewRows(cols))

	recent, err := repo.Recent(context.Background(), "u-1", 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	act, err := repo.CreatedSince(context.Background(), "u-1", since)
	require.NoError(t, err)
	assert.Empty(t, act)
	require.NoError(t, mock.ExpectationsWereMet())
}
