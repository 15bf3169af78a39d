package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID             int64     // ID пользователя (0 для анонимного запроса, только для логирования)
	ProviderID         int64     // ID провайдера
	ServiceID          int64     // ID услуги
	Date               time.Time // Дата в часовом поясе провайдера (без времени)
	GranularityMinutes int       // Шаг слотов (0 = настройка провайдера)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date               time.Time // Дата, на которую запрашивались слоты
	ProviderID         int64     // ID провайдера
	ServiceID          int64     // ID услуги
	DurationMinutes    int       // Длительность услуги
	GranularityMinutes int       // Фактический шаг слотов
	Slots              []Slot    // Свободные слоты по возрастанию времени начала
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала (например, "10:00")
	EndTime   types.TimeString // Время окончания
}
