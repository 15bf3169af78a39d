package create_time_off

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateTimeOffRequest HTTP request model
// Без startTime/endTime отсутствие занимает весь день
type CreateTimeOffRequest struct {
	StartDate         string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate           string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	StartTime         string  `json:"startTime,omitempty" validate:"required_with=EndTime,omitempty,datetime=15:04"`
	EndTime           string  `json:"endTime,omitempty" validate:"required_with=StartTime,omitempty,datetime=15:04|eq=24:00"`
	RecurringAnnually bool    `json:"recurringAnnually"`
	Reason            *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateTimeOffRequest) ToServiceRequest(providerID, userID int64) (*models.CreateTimeOffRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}

	return &models.CreateTimeOffRequest{
		UserID:            userID,
		ProviderID:        providerID,
		StartDate:         startDate,
		EndDate:           endDate,
		StartTime:         types.TimeString(r.StartTime),
		EndTime:           types.TimeString(r.EndTime),
		RecurringAnnually: r.RecurringAnnually,
		Reason:            r.Reason,
	}, nil
}
