package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ProviderID  int64   `json:"providerId" validate:"required,gt=0"`
	ServiceID   int64   `json:"serviceId" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"` // "2026-03-02"
	StartTime   string  `json:"startTime" validate:"required"`                // "14:00"
	ClientName  string  `json:"clientName" validate:"required,max=255"`
	ClientEmail *string `json:"clientEmail,omitempty" validate:"omitempty,email,max=255"`
	ClientPhone *string `json:"clientPhone,omitempty" validate:"omitempty,max=32"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		UserID:      userID,
		ProviderID:  r.ProviderID,
		ServiceID:   r.ServiceID,
		Date:        date,
		StartTime:   startTime,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
		Notes:       r.Notes,
	}, nil
}
