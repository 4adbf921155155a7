package adapthttp

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dogdiet/internal/adapter/xlsx"
	"dogdiet/internal/app"
	"dogdiet/internal/domain"
)

type activityLevelDTO struct {
	Choice     int     `json:"choice"`
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

func (s *Server) handleActivityLevels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items := make([]activityLevelDTO, 0, len(domain.ActivityLevels))
	for i, a := range domain.ActivityLevels {
		items = append(items, activityLevelDTO{Choice: i + 1, Name: a.String(), Multiplier: a.Multiplier()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	res, ok := s.calculate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlanXLSX(w http.ResponseWriter, r *http.Request) {
	res, ok := s.calculate(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := xlsx.WritePlan(&buf, res); err != nil {
		s.logger.Error("xlsx export failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, errors.New("export failed"))
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+xlsx.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// calculate decodes a PlanRequest and runs it. It writes the error response
// itself and returns false on failure.
func (s *Server) calculate(w http.ResponseWriter, r *http.Request) (*app.DietResult, bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return nil, false
	}
	var req app.PlanRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	res, err := s.diet.Calculate(r.Context(), req)
	if errors.Is(err, app.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	if p := principalFromContext(r); p != nil {
		s.logger.Debug("plan calculated",
			slog.String("subject", p.Subject),
			slog.String("auth_method", p.Method),
			slog.String("request_id", requestIDFromContext(r.Context())),
		)
	}
	return res, true
}
