package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
	"github.com/noah-isme/university-timetable-api/pkg/export"
)

type timetableReader interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error)
	IsBooked(ctx context.Context, roomID string, day int, slotID string) (bool, error)
}

type timetableRoomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type timetableSlotReader interface {
	FindByID(ctx context.Context, id string) (*models.Slot, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Timetable export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// TimetableService serves the resolved schedule: filtered listings, room
// availability checks and file exports.
type TimetableService struct {
	timetable timetableReader
	rooms     timetableRoomReader
	slots     timetableSlotReader
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewTimetableService wires the timetable read path.
func NewTimetableService(
	timetable timetableReader,
	rooms timetableRoomReader,
	slots timetableSlotReader,
	csv csvRenderer,
	pdf pdfRenderer,
	logger *zap.Logger,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{timetable: timetable, rooms: rooms, slots: slots, csv: csv, pdf: pdf, logger: logger}
}

// List returns timetable entries matching the filter.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error) {
	if filter.DayOfWeek != nil && !models.ValidDay(*filter.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dayOfWeek %d is out of range 0-6", *filter.DayOfWeek))
	}
	entries, err := s.timetable.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	return entries, nil
}

// CheckAvailability answers whether the (room, day, slot) cell is free.
func (s *TimetableService) CheckAvailability(ctx context.Context, roomID string, day int, slotID string) (*dto.RoomAvailabilityResponse, error) {
	if roomID == "" || slotID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roomId and slotId are required")
	}
	if !models.ValidDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dayOfWeek %d is out of range 0-6", day))
	}
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if _, err := s.slots.FindByID(ctx, slotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	booked, err := s.timetable.IsBooked(ctx, roomID, day, slotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check availability")
	}
	return &dto.RoomAvailabilityResponse{
		RoomID:    roomID,
		SlotID:    slotID,
		DayOfWeek: day,
		DayName:   models.DayName(day),
		Available: !booked,
	}, nil
}

// Export renders the filtered timetable as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, filter models.TimetableFilter, format string) ([]byte, string, error) {
	entries, err := s.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	dataset := timetableDataset(entries)

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	}
	return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
}

func timetableDataset(entries []models.TimetableDetail) export.Dataset {
	headers := []string{"Day", "Slot", "Start", "End", "Course", "Teacher", "Room", "Session"}
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"Day":     models.DayName(e.DayOfWeek),
			"Slot":    e.SlotName,
			"Start":   e.StartTime,
			"End":     e.EndTime,
			"Course":  fmt.Sprintf("%s %s", e.CourseCode, e.CourseName),
			"Teacher": e.TeacherName,
			"Room":    e.RoomNumber,
			"Session": e.SessionType,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
