package create_booking

import (
	"time"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	"github.com/m04kA/counseling-booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	LineUserID         string           // Внешний идентификатор пользователя (LINE)
	UserName           string           // Отображаемое имя (опционально)
	Date               time.Time        // Дата бронирования (время суток игнорируется)
	StartTime          types.TimeString // Начало слота, "HH:MM"
	EndTime            types.TimeString // Конец слота, "HH:MM"
	ProblemType        *string          // Тема консультации из каталога
	ProblemDescription *string          // Описание проблемы
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
