package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dcastano/authcalc-be/internal/validation"
)

// CalcHandler handles the arithmetic endpoints.
type CalcHandler struct{}

// NewCalcHandler creates a new CalcHandler.
func NewCalcHandler() *CalcHandler {
	return &CalcHandler{}
}

// Calculate evaluates {op} over the a and b query parameters.
func (h *CalcHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")

	var errs validation.Errors
	a, err := strconv.ParseFloat(r.URL.Query().Get("a"), 64)
	if err != nil {
		errs = append(errs, validation.FieldError{Field: "a", Message: "must be a number"})
	}
	b, err := strconv.ParseFloat(r.URL.Query().Get("b"), 64)
	if err != nil {
		errs = append(errs, validation.FieldError{Field: "b", Message: "must be a number"})
	}
	if errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	var result float64
	switch op {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			respondValidationErrors(w, validation.Errors{
				{Field: "b", Message: "division by zero"},
			})
			return
		}
		result = a / b
	default:
		respondError(w, http.StatusNotFound, "unknown operation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"op":     op,
		"a":      a,
		"b":      b,
		"result": result,
	})
}
