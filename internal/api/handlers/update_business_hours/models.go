package update_business_hours

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BusinessHoursItem день недели в HTTP запросе
type BusinessHoursItem struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required,min=0,max=6"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty" validate:"required_if=IsOpen true,omitempty,datetime=15:04"`
	CloseTime string `json:"closeTime,omitempty" validate:"required_if=IsOpen true,omitempty,datetime=15:04|eq=24:00"`
}

// UpdateBusinessHoursRequest HTTP request model
// Дни, отсутствующие в списке, считаются выходными
type UpdateBusinessHoursRequest struct {
	Hours []BusinessHoursItem `json:"hours" validate:"required,min=1,max=7,dive"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBusinessHoursRequest) ToServiceRequest(providerID, userID int64) *models.UpdateBusinessHoursRequest {
	items := make([]models.BusinessHoursItem, 0, len(r.Hours))
	for _, h := range r.Hours {
		items = append(items, models.BusinessHoursItem{
			DayOfWeek: *h.DayOfWeek,
			IsOpen:    h.IsOpen,
			OpenTime:  types.TimeString(h.OpenTime),
			CloseTime: types.TimeString(h.CloseTime),
		})
	}

	return &models.UpdateBusinessHoursRequest{
		UserID:     userID,
		ProviderID: providerID,
		Hours:      items,
	}
}
