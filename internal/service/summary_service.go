package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type summaryDepartmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Department, error)
}

type summaryTeacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
}

type summaryAssignmentReader interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.TeacherSlotAssignmentDetail, error)
}

type summaryCourseReader interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherCourseDetail, error)
}

// SummaryService computes the department slot summary. Results are cached and
// recomputed deterministically, so a re-run over unchanged data returns
// identical counts.
type SummaryService struct {
	departments summaryDepartmentReader
	teachers    summaryTeacherReader
	assignments summaryAssignmentReader
	courses     summaryCourseReader
	cache       *CacheService
	logger      *zap.Logger
}

// NewSummaryService wires the summary dependencies.
func NewSummaryService(
	departments summaryDepartmentReader,
	teachers summaryTeacherReader,
	assignments summaryAssignmentReader,
	courses summaryCourseReader,
	cache *CacheService,
	logger *zap.Logger,
) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{departments: departments, teachers: teachers, assignments: assignments, courses: courses, cache: cache, logger: logger}
}

// DepartmentSlotSummary builds the per-slot-type/per-day occupancy picture for
// one department.
func (s *SummaryService) DepartmentSlotSummary(ctx context.Context, departmentID string) (*dto.DepartmentSlotSummaryResponse, error) {
	if departmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department id is required")
	}

	cacheKey := departmentSummaryKey(departmentID)
	var cached dto.DepartmentSlotSummaryResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	department, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	teacherCount, err := s.teachers.CountByDepartment(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count department teachers")
	}

	assignments, err := s.assignments.List(ctx, models.AssignmentFilter{DepartmentID: departmentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department assignments")
	}

	resp := buildDepartmentSummary(department, teacherCount, assignments)
	s.cache.Set(ctx, cacheKey, resp)
	return resp, nil
}

// TeacherWorkload compares the teacher's course load against their weekly
// working-hour budget. Practical hours count double.
func (s *SummaryService) TeacherWorkload(ctx context.Context, teacherID string) (*dto.TeacherWorkloadResponse, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	links, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher courses")
	}

	resp := &dto.TeacherWorkloadResponse{
		TeacherID:   teacher.ID,
		TeacherName: teacher.FullName,
		BudgetHours: teacher.WeeklyWorkingHours,
	}
	for _, link := range links {
		hours := link.WeeklyHours()
		resp.Courses = append(resp.Courses, dto.CourseLoad{
			CourseCode:  link.CourseCode,
			CourseName:  link.CourseName,
			CourseType:  link.CourseType,
			WeeklyHours: hours,
		})
		resp.TotalHours += hours
	}
	resp.Overloaded = resp.BudgetHours > 0 && resp.TotalHours > resp.BudgetHours
	return resp, nil
}

func buildDepartmentSummary(department *models.Department, teacherCount int, assignments []models.TeacherSlotAssignmentDetail) *dto.DepartmentSlotSummaryResponse {
	quota := QuotaFor(teacherCount)

	type cell struct {
		slotType models.SlotType
		day      int
	}
	holders := make(map[cell]map[string]struct{})
	teacherDays := make(map[string]map[int]struct{})
	for _, a := range assignments {
		c := cell{slotType: a.SlotType, day: a.DayOfWeek}
		if holders[c] == nil {
			holders[c] = make(map[string]struct{})
		}
		holders[c][a.TeacherID] = struct{}{}
		if teacherDays[a.TeacherID] == nil {
			teacherDays[a.TeacherID] = make(map[int]struct{})
		}
		teacherDays[a.TeacherID][a.DayOfWeek] = struct{}{}
	}

	compliant := true
	slotTypes := make([]dto.SlotTypeSummary, 0, 3)
	for _, slotType := range models.SlotTypes() {
		summary := dto.SlotTypeSummary{SlotType: slotType}
		for day := models.DayMonday; day <= models.DaySunday; day++ {
			count := len(holders[cell{slotType: slotType, day: day}])
			if count == 0 {
				continue
			}
			percentage := 0.0
			if teacherCount > 0 {
				percentage = math.Round(float64(count)/float64(teacherCount)*10000) / 100
			}
			within := count <= quota
			if !within {
				compliant = false
			}
			summary.Days = append(summary.Days, dto.SlotTypeDayCount{
				DayOfWeek:    day,
				DayName:      models.DayName(day),
				TeacherCount: count,
				Percentage:   percentage,
				WithinQuota:  within,
			})
		}
		slotTypes = append(slotTypes, summary)
	}

	histogram := make(map[int]int)
	for _, days := range teacherDays {
		histogram[len(days)]++
	}
	buckets := make([]dto.DaysAssignedBucket, 0, len(histogram))
	for distinctDays, teachers := range histogram {
		buckets = append(buckets, dto.DaysAssignedBucket{DistinctDays: distinctDays, TeacherCount: teachers})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].DistinctDays < buckets[j].DistinctDays })

	return &dto.DepartmentSlotSummaryResponse{
		DepartmentID:   department.ID,
		DepartmentName: department.Name,
		TeacherCount:   teacherCount,
		Quota:          quota,
		SlotTypes:      slotTypes,
		DaysAssigned:   buckets,
		Compliant:      compliant,
	}
}
