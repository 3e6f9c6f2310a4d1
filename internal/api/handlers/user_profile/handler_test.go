package user_profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/api/middleware"
	"github.com/m04kA/counseling-booking-service/internal/infra/storage/memory"
	"github.com/m04kA/counseling-booking-service/internal/service/users"
	"github.com/m04kA/counseling-booking-service/internal/service/users/models"
	"github.com/m04kA/counseling-booking-service/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetProfile(ctx context.Context, lineUserID string) (*models.ProfileResponse, error) {
	args := m.Called(ctx, lineUserID)
	if v := args.Get(0); v != nil {
		return v.(*models.ProfileResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) UpdateProfile(ctx context.Context, lineUserID string, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	args := m.Called(ctx, lineUserID, req)
	if v := args.Get(0); v != nil {
		return v.(*models.ProfileResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(method, body string) *http.Request {
	r := httptest.NewRequest(method, "/api/v1/users/me", strings.NewReader(body))
	r.Header.Set(middleware.HeaderUserID, "U1")
	return r
}

func TestHandler_UpdateAndGet(t *testing.T) {
	svc := users.NewService(memory.NewStore().Users(), logger.Nop())
	h := NewHandler(svc, logger.Nop())
	update := middleware.Auth(http.HandlerFunc(h.HandleUpdate))
	get := middleware.Auth(http.HandlerFunc(h.HandleGet))

	rec := httptest.NewRecorder()
	get.ServeHTTP(rec, newRequest(http.MethodGet, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	r := newRequest(http.MethodPut, `{"studentId":"6401234","faculty":"Engineering","email":"somchai@example.ac.th"}`)
	r.Header.Set(middleware.HeaderUserName, "Somchai")
	rec = httptest.NewRecorder()
	update.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	get.ServeHTTP(rec, newRequest(http.MethodGet, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.ProfileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	assert.Equal(t, "U1", profile.LineUserID)
	assert.Equal(t, "Somchai", profile.Name)
	assert.Equal(t, "6401234", *profile.StudentID)
	assert.Equal(t, "somchai@example.ac.th", *profile.Email)
}

func TestHandler_HandleUpdateErrors(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateProfile", mock.Anything, "U1", mock.Anything).Return(nil, users.ErrInvalidInput).Once()
	h := NewHandler(svc, logger.Nop())

	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.HandleUpdate)).ServeHTTP(rec, newRequest(http.MethodPut, `{"email":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.HandleUpdate)).ServeHTTP(rec, newRequest(http.MethodPut, `{"email":"nope"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}
