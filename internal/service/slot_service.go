package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/university-timetable-api/internal/dto"
	"github.com/noah-isme/university-timetable-api/internal/models"
	appErrors "github.com/noah-isme/university-timetable-api/pkg/errors"
)

type slotRepository interface {
	ListOrdered(ctx context.Context) ([]models.Slot, error)
	ListByType(ctx context.Context, slotType models.SlotType) ([]models.Slot, error)
	ExistsByTypeAndName(ctx context.Context, slotType models.SlotType, name string) (bool, error)
	Create(ctx context.Context, slot *models.Slot) error
}

// Teaching periods are 50 minutes with a 10 minute gap, so consecutive slots
// start 60 minutes apart.
const (
	slotDuration = 50 * time.Minute
	slotStride   = 60 * time.Minute
)

// SlotService maintains the fixed slot catalog.
type SlotService struct {
	slots  slotRepository
	logger *zap.Logger
}

// NewSlotService constructs the catalog service.
func NewSlotService(slots slotRepository, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{slots: slots, logger: logger}
}

// List returns the full catalog ordered by (type, start time).
func (s *SlotService) List(ctx context.Context) ([]models.Slot, error) {
	slots, err := s.slots.ListOrdered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	return slots, nil
}

// ListByType returns one slot type's slots ordered by start time.
func (s *SlotService) ListByType(ctx context.Context, slotType models.SlotType) ([]models.Slot, error) {
	if !slotType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown slot type %q", slotType))
	}
	slots, err := s.slots.ListByType(ctx, slotType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	return slots, nil
}

// Initialize derives and seeds the atomic teaching slots for every slot type
// window. Seeding is idempotent: slots already in the catalog are skipped.
func (s *SlotService) Initialize(ctx context.Context) (*dto.SlotSeedResponse, error) {
	resp := &dto.SlotSeedResponse{}
	for _, slotType := range models.SlotTypes() {
		window, _ := slotType.Window()
		periods, err := derivePeriods(window)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive slots")
		}
		for i, period := range periods {
			name := fmt.Sprintf("%s%d", slotType, i+1)
			exists, err := s.slots.ExistsByTypeAndName(ctx, slotType, name)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
			}
			if exists {
				resp.Skipped++
				continue
			}
			slot := &models.Slot{
				Name:      name,
				SlotType:  slotType,
				StartTime: period.start,
				EndTime:   period.end,
			}
			if err := s.slots.Create(ctx, slot); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed slot")
			}
			resp.Created++
		}
	}
	s.logger.Info("slot catalog seeded", zap.Int("created", resp.Created), zap.Int("skipped", resp.Skipped))
	return resp, nil
}

type slotPeriod struct {
	start string
	end   string
}

// derivePeriods cuts a macro window into 50-minute periods on a 60-minute
// stride, dropping any tail period that would overrun the window.
func derivePeriods(window models.SlotTypeWindow) ([]slotPeriod, error) {
	start, err := time.Parse("15:04", window.Start)
	if err != nil {
		return nil, fmt.Errorf("parse window start %q: %w", window.Start, err)
	}
	end, err := time.Parse("15:04", window.End)
	if err != nil {
		return nil, fmt.Errorf("parse window end %q: %w", window.End, err)
	}

	var periods []slotPeriod
	for cursor := start; !cursor.Add(slotDuration).After(end); cursor = cursor.Add(slotStride) {
		periods = append(periods, slotPeriod{
			start: cursor.Format("15:04"),
			end:   cursor.Add(slotDuration).Format("15:04"),
		})
	}
	return periods, nil
}
