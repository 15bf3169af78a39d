package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", domain.ErrValidation)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", domain.ErrValidation)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}

	if req.GranularityMinutes != 0 &&
		(req.GranularityMinutes < domain.MinGranularityMinutes || req.GranularityMinutes > domain.MaxGranularityMinutes) {
		return fmt.Errorf("%w: granularity must be in %d..%d minutes",
			domain.ErrValidation, domain.MinGranularityMinutes, domain.MaxGranularityMinutes)
	}

	return nil
}
