package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-timetable-api/internal/models"
)

func newSlotAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSlotAssignmentRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newSlotAssignmentMock(t)
	defer cleanup()
	repo := NewSlotAssignmentRepository(db)

	dept := "dept-1"
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "slot_id", "day_of_week", "created_at", "slot_name", "slot_type", "teacher_name", "department_id"}).
		AddRow("assign-1", "teacher-1", "slot-a", 1, time.Now(), "A", "A", "Dr. Rao", dept).
		AddRow("assign-2", "teacher-1", "slot-b", 2, time.Now(), "B", "B", "Dr. Rao", dept)
	mock.ExpectQuery("FROM teacher_slot_assignments").
		WithArgs("teacher-1").
		WillReturnRows(rows)

	assignments, err := repo.ListByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, models.SlotTypeA, assignments[0].SlotType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotAssignmentRepositoryCountDistinctTeachers(t *testing.T) {
	db, mock, cleanup := newSlotAssignmentMock(t)
	defer cleanup()
	repo := NewSlotAssignmentRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(DISTINCT tsa.teacher_id\\)").
		WithArgs("dept-1", 2, models.SlotTypeB).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountDistinctTeachers(context.Background(), "dept-1", 2, models.SlotTypeB)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotAssignmentRepositoryCreateUpdateDelete(t *testing.T) {
	db, mock, cleanup := newSlotAssignmentMock(t)
	defer cleanup()
	repo := NewSlotAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO teacher_slot_assignments").
		WithArgs(sqlmock.AnyArg(), "teacher-1", "slot-a", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.TeacherSlotAssignment{TeacherID: "teacher-1", SlotID: "slot-a", DayOfWeek: 3}
	require.NoError(t, repo.Create(context.Background(), nil, assignment))
	assert.NotEmpty(t, assignment.ID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_slot_assignments SET slot_id = $1 WHERE id = $2")).
		WithArgs("slot-b", "assign-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateSlot(context.Background(), nil, "assign-1", "slot-b"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_slot_assignments WHERE id = $1")).
		WithArgs("assign-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), nil, "assign-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotAssignmentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newSlotAssignmentMock(t)
	defer cleanup()
	repo := NewSlotAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_slot_assignments WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), nil, "missing")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotAssignmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newSlotAssignmentMock(t)
	defer cleanup()
	repo := NewSlotAssignmentRepository(db)

	day := 5
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "slot_id", "day_of_week", "created_at", "slot_name", "slot_type", "teacher_name", "department_id"}).
		AddRow("assign-9", "teacher-2", "slot-c", day, time.Now(), "C", "C", "Dr. Iyer", "dept-2")
	mock.ExpectQuery("FROM teacher_slot_assignments").
		WithArgs("dept-2", day, models.SlotTypeC).
		WillReturnRows(rows)

	assignments, err := repo.List(context.Background(), models.AssignmentFilter{
		DepartmentID: "dept-2",
		DayOfWeek:    &day,
		SlotType:     models.SlotTypeC,
	})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "assign-9", assignments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
