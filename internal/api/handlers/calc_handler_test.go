package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newCalcRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/calc/{op}", NewCalcHandler().Calculate)
	return r
}

func doCalc(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	newCalcRouter().ServeHTTP(w, req)
	return w
}

func TestCalcHandler_Operations(t *testing.T) {
	tests := []struct {
		name string
		path string
		want float64
	}{
		{"add", "/api/calc/add?a=2&b=3", 5},
		{"subtract", "/api/calc/subtract?a=2&b=3", -1},
		{"multiply", "/api/calc/multiply?a=2&b=3", 6},
		{"divide", "/api/calc/divide?a=3&b=2", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doCalc(t, tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
			}

			var got struct {
				Result float64 `json:"result"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid response JSON: %v", err)
			}
			if got.Result != tt.want {
				t.Errorf("result = %v, want %v", got.Result, tt.want)
			}
		})
	}
}

func TestCalcHandler_DivideByZero(t *testing.T) {
	w := doCalc(t, "/api/calc/divide?a=1&b=0")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestCalcHandler_BadOperands(t *testing.T) {
	w := doCalc(t, "/api/calc/add?a=x&b=")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}

	var got struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(got.Fields) != 2 {
		t.Errorf("field errors = %d, want 2", len(got.Fields))
	}
}

func TestCalcHandler_UnknownOperation(t *testing.T) {
	w := doCalc(t, "/api/calc/modulo?a=1&b=2")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
