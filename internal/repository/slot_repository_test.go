package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

func newSlotMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSlotRepositoryListOrdered(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "slot_type", "start_time", "end_time", "created_at"}).
		AddRow("slot-1", "A", "A", "08:00", "15:00", time.Now()).
		AddRow("slot-2", "B", "B", "10:00", "17:00", time.Now())
	mock.ExpectQuery("SELECT id, name, slot_type, start_time, end_time, created_at").
		WillReturnRows(rows)

	slots, err := repo.ListOrdered(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, models.SlotTypeA, slots[0].SlotType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryExistsByTypeAndName(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectQuery("SELECT 1 FROM slots").
		WithArgs(models.SlotTypeA, "A1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByTypeAndName(context.Background(), models.SlotTypeA, "A1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM slots").
		WithArgs(models.SlotTypeB, "B9").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByTypeAndName(context.Background(), models.SlotTypeB, "B9")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSlotMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("INSERT INTO slots").
		WithArgs(sqlmock.AnyArg(), "A1", "A", "08:00", "08:50", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	slot := &models.Slot{Name: "A1", SlotType: models.SlotTypeA, StartTime: "08:00", EndTime: "08:50"}
	require.NoError(t, repo.Create(context.Background(), slot))
	assert.NotEmpty(t, slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
