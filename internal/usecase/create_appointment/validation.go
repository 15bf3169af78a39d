package create_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const maxClientNameLength = 255

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

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", domain.ErrValidation)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: clientName is required", domain.ErrValidation)
	}
	if len(name) > maxClientNameLength {
		return fmt.Errorf("%w: clientName is too long", domain.ErrValidation)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", domain.ErrValidation, domain.MaxNotesLength)
	}

	return nil
}
