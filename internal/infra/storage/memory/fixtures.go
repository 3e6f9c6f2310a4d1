package memory

import (
	"context"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Seed заполняет хранилище демонстрационным расписанием:
// будни 08:00-20:00, выходные 08:00-16:00, слоты по 60 минут на одного человека,
// и двумя консультантами.
func (s *Store) Seed(ctx context.Context) error {
	for day := time.Sunday; day <= time.Saturday; day++ {
		closeTime := types.TimeString(domain.DefaultCloseTime)
		if day == time.Saturday || day == time.Sunday {
			closeTime = domain.DefaultWeekendCloseTime
		}

		_, err := s.WorkingHours().Upsert(ctx, &domain.WorkingHoursRule{
			DayOfWeek:           int(day),
			OpenTime:            domain.DefaultOpenTime,
			CloseTime:           closeTime,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			DefaultCapacity:     domain.DefaultCapacity,
			IsActive:            true,
		})
		if err != nil {
			return err
		}
	}

	consultants := []*domain.Consultant{
		{Name: "Dr. Somchai", Specialty: ptr.Ptr("stress"), IsActive: true},
		{Name: "Dr. Malee", Specialty: ptr.Ptr("relationship"), IsActive: true},
	}
	for _, c := range consultants {
		if _, err := s.Consultants().Create(ctx, c); err != nil {
			return err
		}
	}

	return nil
}
