package domain

import "time"

// User client identified by an external identity (LINE user id or guest id)
type User struct {
	ID         int64
	ExternalID string
	Name       string
	PictureURL *string
	StudentID  *string
	Faculty    *string
	Phone      *string
	Email      *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Consultant staff member who runs sessions
type Consultant struct {
	ID        int64
	Name      string
	Email     *string
	Phone     *string
	Avatar    *string
	Specialty *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfile контактные данные, которые клиент заполняет сам.
// nil поле не меняет сохранённое значение.
type UserProfile struct {
	Name       *string
	PictureURL *string
	StudentID  *string
	Faculty    *string
	Phone      *string
	Email      *string
}
