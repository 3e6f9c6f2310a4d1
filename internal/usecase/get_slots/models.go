package get_slots

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Request модель запроса на получение слотов дня
type Request struct {
	Date time.Time // Дата (время суток игнорируется)
}

// Response слоты дня с занятостью
type Response struct {
	Date      time.Time        // Нормализованная дата
	DayStatus domain.DayStatus // Почему у дня есть (или нет) слоты
	Bookable  bool             // Дата попадает в окно бронирования
	Slots     []Slot
}

// Slot модель временного слота
type Slot struct {
	ID             string           // "2024-01-01-08:00-09:00"
	StartTime      types.TimeString // Время начала
	EndTime        types.TimeString // Время окончания
	Capacity       int              // Вместимость
	BookedCount    int              // Занято мест
	AvailableCount int              // Свободно мест
	IsAvailable    bool             // Есть хотя бы одно место и дата доступна
	IsOverridden   bool             // Применено переопределение слота
	IsCustom       bool             // Слот добавлен переопределением
}
