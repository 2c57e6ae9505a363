package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type departmentReaderStub struct {
	department *models.Department
	calls      int
}

func (s *departmentReaderStub) FindByID(ctx context.Context, id string) (*models.Department, error) {
	s.calls++
	if s.department == nil || s.department.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.department, nil
}

type teacherCounterStub struct {
	count    int
	teachers map[string]*models.Teacher
}

func (s *teacherCounterStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *teacherCounterStub) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	return s.count, nil
}

type courseReaderStub struct {
	byTeacher map[string][]models.TeacherCourseDetail
}

func (s *courseReaderStub) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherCourseDetail, error) {
	return s.byTeacher[teacherID], nil
}

type assignmentListerStub struct {
	details []models.TeacherSlotAssignmentDetail
}

func (s *assignmentListerStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.TeacherSlotAssignmentDetail, error) {
	return s.details, nil
}

type memoryCacheRepo struct {
	values map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = payload
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.values = make(map[string][]byte)
	return nil
}

func summaryDetail(teacherID string, slotType models.SlotType, day int) models.TeacherSlotAssignmentDetail {
	return models.TeacherSlotAssignmentDetail{
		TeacherSlotAssignment: models.TeacherSlotAssignment{ID: teacherID + "-" + string(slotType), TeacherID: teacherID, DayOfWeek: day},
		SlotType:              slotType,
	}
}

func newSummaryFixture(details []models.TeacherSlotAssignmentDetail, cacheRepo CacheRepository) (*SummaryService, *departmentReaderStub) {
	departments := &departmentReaderStub{department: &models.Department{ID: "dept-1", Name: "Computer Science"}}
	teachers := &teacherCounterStub{
		count: 10,
		teachers: map[string]*models.Teacher{
			"t1": {ID: "t1", FullName: "Dr. Rao", WeeklyWorkingHours: 12},
		},
	}
	courses := &courseReaderStub{byTeacher: map[string][]models.TeacherCourseDetail{
		"t1": {
			{
				TeacherCourse: models.TeacherCourse{ID: "tc-1", TeacherID: "t1"},
				CourseCode:    "CS101",
				CourseName:    "Algorithms",
				CourseType:    models.CourseTypeTheory,
				LectureHours:  3,
				TutorialHours: 1,
			},
			{
				TeacherCourse:  models.TeacherCourse{ID: "tc-2", TeacherID: "t1"},
				CourseCode:     "CS102",
				CourseName:     "Operating Systems Lab",
				CourseType:     models.CourseTypeLab,
				PracticalHours: 2,
			},
		},
	}}
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, cacheRepo != nil)
	svc := NewSummaryService(departments, teachers, &assignmentListerStub{details: details}, courses, cache, nil)
	return svc, departments
}

func TestSummaryCountsAndQuota(t *testing.T) {
	details := []models.TeacherSlotAssignmentDetail{
		summaryDetail("t1", models.SlotTypeA, models.DayMonday),
		summaryDetail("t2", models.SlotTypeA, models.DayMonday),
		summaryDetail("t3", models.SlotTypeA, models.DayMonday),
		summaryDetail("t4", models.SlotTypeA, models.DayMonday),
		summaryDetail("t5", models.SlotTypeB, models.DayTuesday),
	}
	svc, _ := newSummaryFixture(details, nil)

	resp, err := svc.DepartmentSlotSummary(context.Background(), "dept-1")
	require.NoError(t, err)

	assert.Equal(t, "Computer Science", resp.DepartmentName)
	assert.Equal(t, 10, resp.TeacherCount)
	assert.Equal(t, 4, resp.Quota)
	assert.True(t, resp.Compliant)

	require.Len(t, resp.SlotTypes, 3)
	typeA := resp.SlotTypes[0]
	require.Len(t, typeA.Days, 1)
	assert.Equal(t, models.DayMonday, typeA.Days[0].DayOfWeek)
	assert.Equal(t, "Monday", typeA.Days[0].DayName)
	assert.Equal(t, 4, typeA.Days[0].TeacherCount)
	assert.InDelta(t, 40.0, typeA.Days[0].Percentage, 0.001)
	assert.True(t, typeA.Days[0].WithinQuota)
}

func TestSummaryFlagsQuotaBreach(t *testing.T) {
	details := []models.TeacherSlotAssignmentDetail{
		summaryDetail("t1", models.SlotTypeB, models.DayTuesday),
		summaryDetail("t2", models.SlotTypeB, models.DayTuesday),
		summaryDetail("t3", models.SlotTypeB, models.DayTuesday),
		summaryDetail("t4", models.SlotTypeB, models.DayTuesday),
		summaryDetail("t5", models.SlotTypeB, models.DayTuesday),
	}
	svc, _ := newSummaryFixture(details, nil)

	resp, err := svc.DepartmentSlotSummary(context.Background(), "dept-1")
	require.NoError(t, err)

	assert.False(t, resp.Compliant)
	typeB := resp.SlotTypes[1]
	require.Len(t, typeB.Days, 1)
	assert.Equal(t, 5, typeB.Days[0].TeacherCount)
	assert.False(t, typeB.Days[0].WithinQuota)
}

func TestSummaryDaysAssignedHistogram(t *testing.T) {
	details := []models.TeacherSlotAssignmentDetail{
		summaryDetail("t1", models.SlotTypeA, models.DayMonday),
		summaryDetail("t1", models.SlotTypeB, models.DayTuesday),
		summaryDetail("t2", models.SlotTypeA, models.DayMonday),
		summaryDetail("t2", models.SlotTypeB, models.DayTuesday),
		summaryDetail("t3", models.SlotTypeC, models.DayWednesday),
	}
	svc, _ := newSummaryFixture(details, nil)

	resp, err := svc.DepartmentSlotSummary(context.Background(), "dept-1")
	require.NoError(t, err)

	require.Len(t, resp.DaysAssigned, 2)
	assert.Equal(t, 1, resp.DaysAssigned[0].DistinctDays)
	assert.Equal(t, 1, resp.DaysAssigned[0].TeacherCount)
	assert.Equal(t, 2, resp.DaysAssigned[1].DistinctDays)
	assert.Equal(t, 2, resp.DaysAssigned[1].TeacherCount)
}

func TestSummaryServedFromCache(t *testing.T) {
	details := []models.TeacherSlotAssignmentDetail{
		summaryDetail("t1", models.SlotTypeA, models.DayMonday),
	}
	svc, departments := newSummaryFixture(details, newMemoryCacheRepo())

	first, err := svc.DepartmentSlotSummary(context.Background(), "dept-1")
	require.NoError(t, err)
	second, err := svc.DepartmentSlotSummary(context.Background(), "dept-1")
	require.NoError(t, err)

	assert.Equal(t, 1, departments.calls)
	assert.Equal(t, first.Quota, second.Quota)
	assert.Equal(t, first.SlotTypes, second.SlotTypes)
}

func TestTeacherWorkloadCountsLabHoursDouble(t *testing.T) {
	svc, _ := newSummaryFixture(nil, nil)

	resp, err := svc.TeacherWorkload(context.Background(), "t1")
	require.NoError(t, err)

	require.Len(t, resp.Courses, 2)
	assert.Equal(t, 4, resp.Courses[0].WeeklyHours)
	assert.Equal(t, 4, resp.Courses[1].WeeklyHours)
	assert.Equal(t, 8, resp.TotalHours)
	assert.Equal(t, 12, resp.BudgetHours)
	assert.False(t, resp.Overloaded)
}

func TestTeacherWorkloadUnknownTeacher(t *testing.T) {
	svc, _ := newSummaryFixture(nil, nil)

	_, err := svc.TeacherWorkload(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSummaryUnknownDepartment(t *testing.T) {
	svc, _ := newSummaryFixture(nil, nil)

	_, err := svc.DepartmentSlotSummary(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
