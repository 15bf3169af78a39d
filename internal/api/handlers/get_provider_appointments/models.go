package get_provider_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задаёт один день и имеет приоритет над from/to
func ToServiceRequest(providerID, userID int64, query url.Values) (*models.GetProviderAppointmentsRequest, error) {
	req := &models.GetProviderAppointmentsRequest{
		UserID:     userID,
		ProviderID: providerID,
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if fromStr := query.Get("from"); fromStr != "" {
			from, err := time.Parse(domain.DateFormat, fromStr)
			if err != nil {
				return nil, fmt.Errorf("invalid from: %w", err)
			}
			req.StartDate = &from
		}
		if toStr := query.Get("to"); toStr != "" {
			to, err := time.Parse(domain.DateFormat, toStr)
			if err != nil {
				return nil, fmt.Errorf("invalid to: %w", err)
			}
			req.EndDate = &to
		}
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
