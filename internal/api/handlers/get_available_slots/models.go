package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date               string          `json:"date"`
	ProviderID         int64           `json:"providerId"`
	ServiceID          int64           `json:"serviceId"`
	DurationMinutes    int             `json:"durationMinutes"`
	GranularityMinutes int             `json:"granularityMinutes"`
	Slots              []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		}
	}

	return &AvailableSlotsResponse{
		Date:               resp.Date.Format(domain.DateFormat),
		ProviderID:         resp.ProviderID,
		ServiceID:          resp.ServiceID,
		DurationMinutes:    resp.DurationMinutes,
		GranularityMinutes: resp.GranularityMinutes,
		Slots:              slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(providerID, serviceID int64, dateStr, granularityStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if granularityStr != "" {
		granularity, err := strconv.Atoi(granularityStr)
		if err != nil {
			return nil, err
		}
		req.GranularityMinutes = granularity
	}

	return req, nil
}
