package memory

import (
	"context"
	"sort"

	"github.com/m04kA/counseling-booking-service/internal/domain"
	consultantRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/consultant"
	userRepo "github.com/m04kA/counseling-booking-service/internal/infra/storage/user"
)

// UserRepository in-memory аналог user.Repository
type UserRepository struct {
	s *Store
}

func (r *UserRepository) UpsertByExternalID(_ context.Context, externalID, name string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for _, u := range r.s.users {
		if u.ExternalID == externalID {
			if name != "" {
				u.Name = name
			}
			u.UpdatedAt = now
			out := *u
			return &out, nil
		}
	}

	u := &domain.User{
		ID:         r.s.id(),
		ExternalID: externalID,
		Name:       name,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.s.users[u.ID] = u
	out := *u
	return &out, nil
}

func (r *UserRepository) UpsertProfile(_ context.Context, externalID string, profile *domain.UserProfile) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	var user *domain.User
	for _, u := range r.s.users {
		if u.ExternalID == externalID {
			user = u
			break
		}
	}
	if user == nil {
		user = &domain.User{
			ID:         r.s.id(),
			ExternalID: externalID,
			IsActive:   true,
			CreatedAt:  now,
		}
		r.s.users[user.ID] = user
	}

	if profile.Name != nil && *profile.Name != "" {
		user.Name = *profile.Name
	}
	if profile.PictureURL != nil {
		user.PictureURL = profile.PictureURL
	}
	if profile.StudentID != nil {
		user.StudentID = profile.StudentID
	}
	if profile.Faculty != nil {
		user.Faculty = profile.Faculty
	}
	if profile.Phone != nil {
		user.Phone = profile.Phone
	}
	if profile.Email != nil {
		user.Email = profile.Email
	}
	user.UpdatedAt = now

	out := *user
	return &out, nil
}

func (r *UserRepository) GetByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ExternalID == externalID {
			out := *u
			return &out, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

// ConsultantRepository in-memory аналог consultant.Repository
type ConsultantRepository struct {
	s *Store
}

func (r *ConsultantRepository) List(_ context.Context, activeOnly bool) ([]*domain.Consultant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Consultant, 0, len(r.s.consultants))
	for _, c := range r.s.consultants {
		if activeOnly && !c.IsActive {
			continue
		}
		out := *c
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *ConsultantRepository) GetByID(_ context.Context, id int64) (*domain.Consultant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.consultants[id]
	if !ok {
		return nil, consultantRepo.ErrConsultantNotFound
	}
	out := *c
	return &out, nil
}

func (r *ConsultantRepository) Create(_ context.Context, c *domain.Consultant) (*domain.Consultant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	c.ID = r.s.id()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	r.s.consultants[c.ID] = &stored
	return c, nil
}

func (r *ConsultantRepository) Update(_ context.Context, c *domain.Consultant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.consultants[c.ID]
	if !ok {
		return consultantRepo.ErrConsultantNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = r.s.now()

	stored := *c
	r.s.consultants[c.ID] = &stored
	return nil
}
