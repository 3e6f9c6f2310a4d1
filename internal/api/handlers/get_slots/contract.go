package get_slots

import (
	"context"

	getSlots "github.com/m04kA/counseling-booking-service/internal/usecase/get_slots"
)

type GetSlotsUseCase interface {
	Execute(ctx context.Context, req *getSlots.Request) (*getSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
