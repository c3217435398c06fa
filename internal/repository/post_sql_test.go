package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestPostRepository_ToggleLike_LocksPostOnPostgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE id = $1 ORDER BY "posts"."_id" LIMIT $2 FOR UPDATE`)).
		WithArgs("p1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "likes"}).AddRow("p1", 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "post_likes" WHERE post_id = $1 AND user_id = $2`)).
		WithArgs("p1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes FROM "posts" WHERE id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(3))
	mock.ExpectCommit()

	liked, likes, err := repo.ToggleLike(context.Background(), "p1", "u1", epoch)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 3, likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_RollsBackOnChildFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE id = $1`)).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments" WHERE post_id = $1`)).
		WithArgs("p1").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "p1")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_Postgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY "timestamp" DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p14"))

	posts, total, err := repo.List(context.Background(), Page{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "p14", posts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
