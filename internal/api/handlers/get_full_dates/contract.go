package get_full_dates

import (
	"context"

	getFullDates "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_full_dates"
)

type GetFullDatesUseCase interface {
	Execute(ctx context.Context, req *getFullDates.Request) (*getFullDates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
