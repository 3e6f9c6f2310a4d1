package get_slots

import (
	getSlots "github.com/m04kA/counseling-booking-service/internal/usecase/get_slots"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date      string         `json:"date"`
	DayStatus string         `json:"dayStatus"`
	Bookable  bool           `json:"bookable"`
	Slots     []SlotResponse `json:"slots"`
}

// SlotResponse модель временного слота
type SlotResponse struct {
	ID             string `json:"id"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Capacity       int    `json:"capacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableCount int    `json:"availableCount"`
	IsAvailable    bool   `json:"isAvailable"`
	IsOverridden   bool   `json:"isOverridden"`
	IsCustom       bool   `json:"isCustom"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		Date:      types.FormatDate(resp.Date),
		DayStatus: string(resp.DayStatus),
		Bookable:  resp.Bookable,
		Slots:     make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			ID:             s.ID,
			StartTime:      s.StartTime.String(),
			EndTime:        s.EndTime.String(),
			Capacity:       s.Capacity,
			BookedCount:    s.BookedCount,
			AvailableCount: s.AvailableCount,
			IsAvailable:    s.IsAvailable,
			IsOverridden:   s.IsOverridden,
			IsCustom:       s.IsCustom,
		})
	}
	return out
}
