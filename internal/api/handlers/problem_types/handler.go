package problem_types

import (
	"net/http"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
	"github.com/m04kA/counseling-booking-service/internal/domain"
)

// ProblemTypeResponse тема консультации
type ProblemTypeResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProblemTypeListResponse каталог тем
type ProblemTypeListResponse struct {
	ProblemTypes []ProblemTypeResponse `json:"problemTypes"`
}

type Handler struct {
	response ProblemTypeListResponse
}

func NewHandler() *Handler {
	resp := ProblemTypeListResponse{ProblemTypes: make([]ProblemTypeResponse, 0, len(domain.ProblemTypes))}
	for _, p := range domain.ProblemTypes {
		resp.ProblemTypes = append(resp.ProblemTypes, ProblemTypeResponse{ID: p.ID, Label: p.Label})
	}
	return &Handler{response: resp}
}

// Handle GET /api/v1/problem-types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.response)
}
