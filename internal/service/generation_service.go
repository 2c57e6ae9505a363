package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	"github.com/noah-isme/university-timetable-api/internal/solver"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type generationConfigRepository interface {
	Create(ctx context.Context, config *models.GenerationConfig) error
	FindByID(ctx context.Context, id string) (*models.GenerationConfig, error)
	List(ctx context.Context) ([]models.GenerationConfig, error)
	MarkRunning(ctx context.Context, id string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, exec sqlx.ExtContext, id string, completedAt time.Time, log string) error
	MarkFailed(ctx context.Context, id string, completedAt time.Time, log string) error
}

type generationTeacherReader interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type generationCourseReader interface {
	ListAllDetails(ctx context.Context) ([]models.TeacherCourseDetail, error)
}

type generationRoomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type generationSlotReader interface {
	ListOrdered(ctx context.Context) ([]models.Slot, error)
}

type timetableWriter interface {
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) error
	BulkInsert(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error
}

// GenerationOptions bounds the solver budget.
type GenerationOptions struct {
	DefaultSolverTimeout time.Duration
	MaxSolverTimeout     time.Duration
}

// GenerationService runs the automated timetable path: it translates the
// teacher/course/room/day/slot space into a boolean constraint model, solves
// it under the config's wall-clock budget, and on success replaces the whole
// timetable in one transaction.
type GenerationService struct {
	configs   generationConfigRepository
	teachers  generationTeacherReader
	courses   generationCourseReader
	rooms     generationRoomReader
	slots     generationSlotReader
	timetable timetableWriter
	tx        txProvider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	opts      GenerationOptions
}

// NewGenerationService wires the generation dependencies.
func NewGenerationService(
	configs generationConfigRepository,
	teachers generationTeacherReader,
	courses generationCourseReader,
	rooms generationRoomReader,
	slots generationSlotReader,
	timetable timetableWriter,
	tx txProvider,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	opts GenerationOptions,
) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultSolverTimeout <= 0 {
		opts.DefaultSolverTimeout = 10 * time.Minute
	}
	if opts.MaxSolverTimeout <= 0 {
		opts.MaxSolverTimeout = 30 * time.Minute
	}
	return &GenerationService{
		configs:   configs,
		teachers:  teachers,
		courses:   courses,
		rooms:     rooms,
		slots:     slots,
		timetable: timetable,
		tx:        tx,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		opts:      opts,
	}
}

// CreateConfig persists a fresh config in not_started state.
func (s *GenerationService) CreateConfig(ctx context.Context, req dto.CreateGenerationConfigRequest) (*models.GenerationConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation config payload")
	}

	timeout := time.Duration(req.SolverTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = s.opts.DefaultSolverTimeout
	}
	if timeout > s.opts.MaxSolverTimeout {
		timeout = s.opts.MaxSolverTimeout
	}

	config := &models.GenerationConfig{
		Name:                  req.Name,
		MaxTeacherSlotsPerDay: req.MaxTeacherSlotsPerDay,
		EnableLunchBreaks:     req.EnableLunchBreaks,
		EnableLabConsecutive:  req.EnableLabConsecutive,
		MinCourseInstances:    req.MinCourseInstances,
		DivisionAssignment:    req.DivisionAssignment,
		SolverTimeoutSeconds:  int(timeout / time.Second),
		Status:                models.GenerationStatusNotStarted,
	}
	if err := s.configs.Create(ctx, config); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create generation config")
	}
	return config, nil
}

// Get returns one config.
func (s *GenerationService) Get(ctx context.Context, id string) (*models.GenerationConfig, error) {
	config, err := s.configs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation config not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation config")
	}
	return config, nil
}

// List summarises all configs newest first.
func (s *GenerationService) List(ctx context.Context) ([]dto.GenerationStatusResponse, error) {
	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list generation configs")
	}
	statuses := make([]dto.GenerationStatusResponse, 0, len(configs))
	for _, c := range configs {
		statuses = append(statuses, dto.GenerationStatusResponse{
			ID:          c.ID,
			Name:        c.Name,
			Status:      c.Status,
			IsGenerated: c.IsGenerated,
			StartedAt:   c.StartedAt,
			CompletedAt: c.CompletedAt,
			CreatedAt:   c.CreatedAt,
		})
	}
	return statuses, nil
}

// Log returns one config's append-only generation log.
func (s *GenerationService) Log(ctx context.Context, id string) (string, error) {
	config, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return config.Log, nil
}

// Generate runs the solver for the config. A completed config refuses to
// regenerate; a failed one is retried by creating a fresh config, not by
// re-running this one concurrently.
func (s *GenerationService) Generate(ctx context.Context, configID string) (*dto.GenerationRunResponse, error) {
	config, err := s.Get(ctx, configID)
	if err != nil {
		return nil, err
	}
	if config.IsGenerated || config.Status == models.GenerationStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrStateConflict, "config already generated a timetable; create a new config to regenerate")
	}
	if config.Status == models.GenerationStatusRunning {
		return nil, appErrors.Clone(appErrors.ErrStateConflict, "generation already running for this config")
	}

	startedAt := time.Now().UTC()
	if err := s.configs.MarkRunning(ctx, config.ID, startedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStateConflict, "config is not in a runnable state")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start generation")
	}

	build, err := s.buildModel(ctx, config)
	if err != nil {
		log := appendLog(config.Log, startedAt, fmt.Sprintf("model build failed: %v", err))
		if markErr := s.configs.MarkFailed(ctx, config.ID, time.Now().UTC(), log); markErr != nil {
			s.logger.Error("mark generation failed errored", zap.String("configId", config.ID), zap.Error(markErr))
		}
		return nil, err
	}

	log := appendLog(config.Log, startedAt,
		fmt.Sprintf("model built: %d variables, %d constraints (%d teacher-course pairs, %d rooms, %d slots)",
			build.model.NumVars(), build.model.NumConstraints(), build.pairCount, build.roomCount, build.slotCount))
	if config.EnableLunchBreaks || config.EnableLabConsecutive {
		log = appendLog(log, time.Now().UTC(), "lunch-break/lab-consecutive toggles accepted but add no model constraints")
	}

	result := build.model.Solve(config.SolverTimeout())
	s.metrics.ObserveSolverRun(result.Status.String(), result.Elapsed)
	log = appendLog(log, time.Now().UTC(), fmt.Sprintf("solver finished: status=%s wall=%s", result.Status, result.Elapsed.Round(time.Millisecond)))

	if result.Status != solver.StatusFeasible {
		completedAt := time.Now().UTC()
		log = appendLog(log, completedAt, "timetable left unchanged")
		if err := s.configs.MarkFailed(ctx, config.ID, completedAt, log); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record generation failure")
		}
		return &dto.GenerationRunResponse{
			ConfigID:     config.ID,
			Status:       models.GenerationStatusFailed,
			SolverStatus: result.Status.String(),
			WallTime:     result.Elapsed.Round(time.Millisecond).String(),
			Log:          log,
		}, nil
	}

	entries := build.entries(result, startedAt)
	completedAt := time.Now().UTC()
	log = appendLog(log, completedAt, fmt.Sprintf("timetable rebuilt with %d entries", len(entries)))

	if err := s.persist(ctx, config.ID, entries, completedAt, log); err != nil {
		failLog := appendLog(log, time.Now().UTC(), fmt.Sprintf("persist failed: %v", err))
		if markErr := s.configs.MarkFailed(ctx, config.ID, time.Now().UTC(), failLog); markErr != nil {
			s.logger.Error("mark generation failed errored", zap.String("configId", config.ID), zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated timetable")
	}

	s.logger.Info("timetable generated",
		zap.String("configId", config.ID),
		zap.Int("entries", len(entries)),
		zap.Duration("wallTime", result.Elapsed))

	return &dto.GenerationRunResponse{
		ConfigID:     config.ID,
		Status:       models.GenerationStatusCompleted,
		SolverStatus: result.Status.String(),
		EntryCount:   len(entries),
		WallTime:     result.Elapsed.Round(time.Millisecond).String(),
		Log:          log,
	}, nil
}

// persist atomically replaces the timetable and flips the config to completed.
func (s *GenerationService) persist(ctx context.Context, configID string, entries []models.TimetableEntry, completedAt time.Time, log string) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.timetable.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err = s.timetable.BulkInsert(ctx, tx, entries); err != nil {
		return err
	}
	if err = s.configs.MarkCompleted(ctx, tx, configID, completedAt, log); err != nil {
		return err
	}
	return tx.Commit()
}

// modelBuild holds the solver model plus the bookkeeping needed to turn a
// solution back into timetable rows.
type modelBuild struct {
	model     *solver.Model
	vars      []candidateVar
	pairCount int
	roomCount int
	slotCount int
}

type candidateVar struct {
	v               solver.Var
	teacherCourseID string
	slotID          string
	roomID          string
	day             int
	lab             bool
}

func (b *modelBuild) entries(result solver.Result, startedAt time.Time) []models.TimetableEntry {
	startDate := startedAt.Truncate(24 * time.Hour)
	var entries []models.TimetableEntry
	for _, cv := range b.vars {
		if !result.Value(cv.v) {
			continue
		}
		sessionType := models.SessionTypeLecture
		if cv.lab {
			sessionType = models.SessionTypeLab
		}
		entries = append(entries, models.TimetableEntry{
			DayOfWeek:       cv.day,
			TeacherCourseID: cv.teacherCourseID,
			SlotID:          cv.slotID,
			RoomID:          cv.roomID,
			IsRecurring:     true,
			StartDate:       startDate,
			SessionType:     sessionType,
		})
	}
	return entries
}

func (s *GenerationService) buildModel(ctx context.Context, config *models.GenerationConfig) (*modelBuild, error) {
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	courses, err := s.courses.ListAllDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher courses")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	slots, err := s.slots.ListOrdered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slots")
	}

	eligible := make(map[string]bool, len(teachers))
	for _, t := range teachers {
		eligible[t.ID] = t.SchedulingEligible()
	}

	// Teachers without any course are skipped entirely rather than producing
	// unsatisfiable min-instance bounds.
	pairs := make([]models.TeacherCourseDetail, 0, len(courses))
	for _, tc := range courses {
		if eligible[tc.TeacherID] {
			pairs = append(pairs, tc)
		}
	}

	model := solver.NewModel()
	build := &modelBuild{
		model:     model,
		pairCount: len(pairs),
		roomCount: len(rooms),
		slotCount: len(slots),
	}

	perPair := make(map[string][]solver.Var)
	type cellKey struct {
		id   string
		day  int
		slot string
	}
	perTeacherCell := make(map[cellKey][]solver.Var)
	perRoomCell := make(map[cellKey][]solver.Var)
	type dayKey struct {
		teacherID string
		day       int
	}
	perTeacherDay := make(map[dayKey][]solver.Var)

	for _, tc := range pairs {
		lab := tc.IsLabCourse()
		for _, room := range rooms {
			if room.IsLab != lab {
				continue
			}
			for _, day := range models.WorkingDays() {
				for _, slot := range slots {
					name := fmt.Sprintf("%s@%s/%d/%s", tc.ID, room.ID, day, slot.ID)
					v := model.NewBoolVar(name)
					build.vars = append(build.vars, candidateVar{
						v:               v,
						teacherCourseID: tc.ID,
						slotID:          slot.ID,
						roomID:          room.ID,
						day:             day,
						lab:             lab,
					})
					perPair[tc.ID] = append(perPair[tc.ID], v)
					perTeacherCell[cellKey{id: tc.TeacherID, day: day, slot: slot.ID}] = append(perTeacherCell[cellKey{id: tc.TeacherID, day: day, slot: slot.ID}], v)
					perRoomCell[cellKey{id: room.ID, day: day, slot: slot.ID}] = append(perRoomCell[cellKey{id: room.ID, day: day, slot: slot.ID}], v)
					perTeacherDay[dayKey{teacherID: tc.TeacherID, day: day}] = append(perTeacherDay[dayKey{teacherID: tc.TeacherID, day: day}], v)
				}
			}
		}
	}

	for _, tc := range pairs {
		model.AddLinearAtLeast(perPair[tc.ID], config.MinCourseInstances)
	}
	for _, vars := range perTeacherCell {
		model.AddAtMostOne(vars)
	}
	for _, vars := range perRoomCell {
		model.AddAtMostOne(vars)
	}
	if config.MaxTeacherSlotsPerDay > 0 {
		for _, vars := range perTeacherDay {
			model.AddLinearAtMost(vars, config.MaxTeacherSlotsPerDay)
		}
	}

	return build, nil
}

func appendLog(log string, at time.Time, line string) string {
	entry := fmt.Sprintf("[%s] %s", at.Format(time.RFC3339), line)
	if strings.TrimSpace(log) == "" {
		return entry
	}
	return log + "\n" + entry
}
