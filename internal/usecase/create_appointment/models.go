package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID      int64            // ID клиента (X-User-ID)
	ProviderID  int64            // ID провайдера
	ServiceID   int64            // ID услуги
	Date        time.Time        // Дата в часовом поясе провайдера (без времени)
	StartTime   types.TimeString // Время начала (например, "14:00")
	ClientName  string           // Имя клиента
	ClientEmail *string          // Email (опционально)
	ClientPhone *string          // Телефон (опционально)
	Notes       *string          // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
