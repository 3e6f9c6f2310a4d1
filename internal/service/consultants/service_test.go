package consultants

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/infra/storage/memory"
	"github.com/m04kA/counseling-booking-service/internal/service/consultants/models"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
	"github.com/m04kA/counseling-booking-service/pkg/ptr"
)

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Consultants(), logger.Nop())

	_, err := svc.Create(ctx, &models.CreateConsultantRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.Create(ctx, &models.CreateConsultantRequest{Name: " Dr. Malee ", Specialty: ptr.Ptr("stress")})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Malee", created.Name)
	assert.True(t, created.IsActive)

	updated, err := svc.Update(ctx, created.ID, &models.UpdateConsultantRequest{Phone: ptr.Ptr("+66 2 000 0000")})
	require.NoError(t, err)
	assert.Equal(t, "+66 2 000 0000", *updated.Phone)
	assert.Equal(t, "stress", *updated.Specialty)

	require.NoError(t, svc.Deactivate(ctx, created.ID))

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active.Consultants)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all.Consultants, 1)
	assert.False(t, all.Consultants[0].IsActive)

	assert.ErrorIs(t, svc.Deactivate(ctx, 42), ErrConsultantNotFound)
}

func TestService_NameLengthCountsCharacters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Consultants(), logger.Nop())

	name := strings.Repeat("ส", maxNameLength)
	created, err := svc.Create(ctx, &models.CreateConsultantRequest{Name: name})
	require.NoError(t, err)
	assert.Equal(t, name, created.Name)

	_, err = svc.Create(ctx, &models.CreateConsultantRequest{Name: name + "ส"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
