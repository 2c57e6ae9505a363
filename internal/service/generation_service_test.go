package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type generationConfigRepoStub struct {
	configs map[string]*models.GenerationConfig
	nextID  int
	failed  []string
}

func newGenerationConfigRepoStub() *generationConfigRepoStub {
	return &generationConfigRepoStub{configs: make(map[string]*models.GenerationConfig)}
}

func (s *generationConfigRepoStub) Create(ctx context.Context, config *models.GenerationConfig) error {
	s.nextID++
	config.ID = fmt.Sprintf("config-%d", s.nextID)
	config.CreatedAt = time.Now().UTC()
	cp := *config
	s.configs[config.ID] = &cp
	return nil
}

func (s *generationConfigRepoStub) FindByID(ctx context.Context, id string) (*models.GenerationConfig, error) {
	config, ok := s.configs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *config
	return &cp, nil
}

func (s *generationConfigRepoStub) List(ctx context.Context) ([]models.GenerationConfig, error) {
	out := make([]models.GenerationConfig, 0, len(s.configs))
	for _, config := range s.configs {
		out = append(out, *config)
	}
	return out, nil
}

func (s *generationConfigRepoStub) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	config, ok := s.configs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if config.Status != models.GenerationStatusNotStarted && config.Status != models.GenerationStatusFailed {
		return sql.ErrNoRows
	}
	config.Status = models.GenerationStatusRunning
	config.StartedAt = &startedAt
	return nil
}

func (s *generationConfigRepoStub) MarkCompleted(ctx context.Context, exec sqlx.ExtContext, id string, completedAt time.Time, log string) error {
	config, ok := s.configs[id]
	if !ok {
		return sql.ErrNoRows
	}
	config.Status = models.GenerationStatusCompleted
	config.IsGenerated = true
	config.CompletedAt = &completedAt
	config.Log = log
	return nil
}

func (s *generationConfigRepoStub) MarkFailed(ctx context.Context, id string, completedAt time.Time, log string) error {
	config, ok := s.configs[id]
	if !ok {
		return sql.ErrNoRows
	}
	config.Status = models.GenerationStatusFailed
	config.CompletedAt = &completedAt
	config.Log = log
	s.failed = append(s.failed, id)
	return nil
}

type generationTeacherStub struct {
	teachers []models.Teacher
}

func (s *generationTeacherStub) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type generationCourseStub struct {
	pairs []models.TeacherCourseDetail
}

func (s *generationCourseStub) ListAllDetails(ctx context.Context) ([]models.TeacherCourseDetail, error) {
	return s.pairs, nil
}

type generationRoomStub struct {
	rooms []models.Room
}

func (s *generationRoomStub) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type generationSlotStub struct {
	slots []models.Slot
}

func (s *generationSlotStub) ListOrdered(ctx context.Context) ([]models.Slot, error) {
	return s.slots, nil
}

type timetableWriterStub struct {
	deletes  int
	inserted []models.TimetableEntry
}

func (s *timetableWriterStub) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	s.deletes++
	s.inserted = nil
	return nil
}

func (s *timetableWriterStub) BulkInsert(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error {
	s.inserted = append(s.inserted, entries...)
	return nil
}

func teacherCoursePair(id, teacherID string, practicalHours int) models.TeacherCourseDetail {
	return models.TeacherCourseDetail{
		TeacherCourse:  models.TeacherCourse{ID: id, TeacherID: teacherID, CourseID: "course-" + id},
		CourseCode:     "CS101",
		CourseName:     "Algorithms",
		CourseType:     models.CourseTypeTheory,
		LectureHours:   3,
		PracticalHours: practicalHours,
	}
}

type generationFixture struct {
	svc       *GenerationService
	configs   *generationConfigRepoStub
	timetable *timetableWriterStub
	teachers  *generationTeacherStub
	courses   *generationCourseStub
	rooms     *generationRoomStub
	slots     *generationSlotStub
}

func newGenerationFixture(t *testing.T, writes int) *generationFixture {
	f := &generationFixture{
		configs: newGenerationConfigRepoStub(),
		teachers: &generationTeacherStub{teachers: []models.Teacher{
			{ID: "teacher-1", FullName: "Dr. Rao"},
			{ID: "teacher-2", FullName: "Prof. Iyer"},
		}},
		courses: &generationCourseStub{pairs: []models.TeacherCourseDetail{
			teacherCoursePair("tc-1", "teacher-1", 0),
			teacherCoursePair("tc-2", "teacher-2", 0),
		}},
		rooms: &generationRoomStub{rooms: []models.Room{
			{ID: "room-1", Number: "101", Block: "A", IsLab: false},
		}},
		slots: &generationSlotStub{slots: []models.Slot{
			{ID: "slot-a1", Name: "A1", SlotType: models.SlotTypeA, StartTime: "08:00", EndTime: "08:50"},
		}},
		timetable: &timetableWriterStub{},
	}
	f.svc = NewGenerationService(
		f.configs, f.teachers, f.courses, f.rooms, f.slots, f.timetable,
		newTxProviderMock(t, writes), nil, nil, nil,
		GenerationOptions{DefaultSolverTimeout: 5 * time.Second, MaxSolverTimeout: 10 * time.Second},
	)
	return f
}

func (f *generationFixture) createConfig(t *testing.T, minInstances, maxPerDay int) *models.GenerationConfig {
	config, err := f.svc.CreateConfig(context.Background(), dto.CreateGenerationConfigRequest{
		Name:                  "semester draft",
		MinCourseInstances:    minInstances,
		MaxTeacherSlotsPerDay: maxPerDay,
		DivisionAssignment:    "A",
		SolverTimeoutSeconds:  5,
	})
	require.NoError(t, err)
	return config
}

func TestGenerationFeasibleRebuildsTimetable(t *testing.T) {
	f := newGenerationFixture(t, 1)
	config := f.createConfig(t, 2, 0)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)

	assert.Equal(t, models.GenerationStatusCompleted, resp.Status)
	assert.Equal(t, "feasible", resp.SolverStatus)
	// Two pairs, two instances each.
	assert.Equal(t, 4, resp.EntryCount)
	assert.Equal(t, 1, f.timetable.deletes)
	require.Len(t, f.timetable.inserted, 4)

	// One room and one slot per day leaves no legal double-booking.
	type cell struct {
		room string
		day  int
		slot string
	}
	seen := make(map[cell]bool)
	for _, entry := range f.timetable.inserted {
		c := cell{room: entry.RoomID, day: entry.DayOfWeek, slot: entry.SlotID}
		assert.False(t, seen[c], "room cell booked twice: %+v", c)
		seen[c] = true
		assert.Equal(t, models.SessionTypeLecture, entry.SessionType)
		assert.True(t, entry.IsRecurring)
	}

	stored, err := f.svc.Get(context.Background(), config.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationStatusCompleted, stored.Status)
	assert.True(t, stored.IsGenerated)
	assert.Contains(t, stored.Log, "solver finished")
	assert.Contains(t, stored.Log, "timetable rebuilt with 4 entries")
}

func TestGenerationInfeasibleMarksFailedAndLeavesTimetable(t *testing.T) {
	f := newGenerationFixture(t, 0)
	// Five working days with one room and one slot gives each pair five
	// candidate cells; asking for six instances cannot be met.
	config := f.createConfig(t, 6, 0)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)

	assert.Equal(t, models.GenerationStatusFailed, resp.Status)
	assert.NotEqual(t, "feasible", resp.SolverStatus)
	assert.Zero(t, resp.EntryCount)
	assert.Zero(t, f.timetable.deletes)
	assert.Empty(t, f.timetable.inserted)
	assert.Contains(t, resp.Log, "timetable left unchanged")
	assert.Equal(t, []string{config.ID}, f.configs.failed)
}

func TestGenerationCompletedConfigRefusesRerun(t *testing.T) {
	f := newGenerationFixture(t, 1)
	config := f.createConfig(t, 1, 0)

	_, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)

	_, err = f.svc.Generate(context.Background(), config.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStateConflict.Code, appErrors.FromError(err).Code)
}

func TestGenerationFailedConfigCanRetry(t *testing.T) {
	f := newGenerationFixture(t, 1)
	config := f.createConfig(t, 6, 0)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusFailed, resp.Status)

	// Loosen the instance floor so the retry can succeed.
	f.configs.configs[config.ID].MinCourseInstances = 1

	resp, err = f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationStatusCompleted, resp.Status)
}

func TestGenerationSkipsPlaceholderTeachers(t *testing.T) {
	f := newGenerationFixture(t, 1)
	f.teachers.teachers[1].IsPlaceholder = true
	config := f.createConfig(t, 1, 0)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)

	require.Equal(t, models.GenerationStatusCompleted, resp.Status)
	require.Len(t, f.timetable.inserted, 1)
	assert.Equal(t, "tc-1", f.timetable.inserted[0].TeacherCourseID)
}

func TestGenerationMatchesLabCoursesToLabRooms(t *testing.T) {
	f := newGenerationFixture(t, 1)
	f.courses.pairs = []models.TeacherCourseDetail{
		teacherCoursePair("tc-lab", "teacher-1", 2),
	}
	f.rooms.rooms = []models.Room{
		{ID: "room-1", Number: "101", Block: "A", IsLab: false},
		{ID: "lab-1", Number: "L1", Block: "B", IsLab: true},
	}
	config := f.createConfig(t, 1, 0)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)

	require.Equal(t, models.GenerationStatusCompleted, resp.Status)
	require.Len(t, f.timetable.inserted, 1)
	assert.Equal(t, "lab-1", f.timetable.inserted[0].RoomID)
	assert.Equal(t, models.SessionTypeLab, f.timetable.inserted[0].SessionType)
}

func TestGenerationHonorsDailyTeacherCap(t *testing.T) {
	f := newGenerationFixture(t, 1)
	f.courses.pairs = []models.TeacherCourseDetail{
		teacherCoursePair("tc-1", "teacher-1", 0),
	}
	f.slots.slots = []models.Slot{
		{ID: "slot-a1", Name: "A1", SlotType: models.SlotTypeA, StartTime: "08:00", EndTime: "08:50"},
		{ID: "slot-a2", Name: "A2", SlotType: models.SlotTypeA, StartTime: "09:00", EndTime: "09:50"},
	}
	config := f.createConfig(t, 3, 1)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)
	require.Equal(t, models.GenerationStatusCompleted, resp.Status)

	perDay := make(map[int]int)
	for _, entry := range f.timetable.inserted {
		perDay[entry.DayOfWeek]++
	}
	for day, count := range perDay {
		assert.LessOrEqual(t, count, 1, "day %d over the cap", day)
	}
}

func TestGenerationUnknownConfig(t *testing.T) {
	f := newGenerationFixture(t, 0)

	_, err := f.svc.Generate(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGenerationLunchBreakToggleIsLoggedInert(t *testing.T) {
	f := newGenerationFixture(t, 1)
	config, err := f.svc.CreateConfig(context.Background(), dto.CreateGenerationConfigRequest{
		Name:                 "with lunch breaks",
		MinCourseInstances:   1,
		DivisionAssignment:   "A",
		EnableLunchBreaks:    true,
		SolverTimeoutSeconds: 5,
	})
	require.NoError(t, err)

	resp, err := f.svc.Generate(context.Background(), config.ID)
	require.NoError(t, err)
	assert.Contains(t, resp.Log, "add no model constraints")
}

func TestGenerationConfigTimeoutClamped(t *testing.T) {
	f := newGenerationFixture(t, 0)
	config, err := f.svc.CreateConfig(context.Background(), dto.CreateGenerationConfigRequest{
		Name:                 "greedy budget",
		MinCourseInstances:   1,
		DivisionAssignment:   "A",
		SolverTimeoutSeconds: 3600,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, config.SolverTimeoutSeconds)

	config, err = f.svc.CreateConfig(context.Background(), dto.CreateGenerationConfigRequest{
		Name:               "default budget",
		MinCourseInstances: 1,
		DivisionAssignment: "A",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, config.SolverTimeoutSeconds)
}
