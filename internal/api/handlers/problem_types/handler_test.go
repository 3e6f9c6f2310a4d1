package problem_types

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/counseling-booking-service/internal/domain"
)

func TestHandler_Handle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/problem-types", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp ProblemTypeListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.ProblemTypes, 11)
	assert.Equal(t, ProblemTypeResponse{ID: "stress", Label: "Stress / anxiety"}, resp.ProblemTypes[0])
	assert.Equal(t, "other", resp.ProblemTypes[len(resp.ProblemTypes)-1].ID)

	for _, p := range resp.ProblemTypes {
		assert.True(t, domain.IsKnownProblemType(p.ID), p.ID)
	}
}
