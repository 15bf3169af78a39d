package update_business_hours

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	ReplaceBusinessHours(ctx context.Context, req *models.UpdateBusinessHoursRequest) ([]models.BusinessHoursItem, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
