// Package server exposes accessibility scoring over HTTP. Computation is
// synchronous: a score request carries the full distance matrix and the
// response carries the scores, nothing is queued.
package server

import (
	"encoding/json"
	"math"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/catchment/internal/model"
	"github.com/sells-group/catchment/pkg/decay"
	"github.com/sells-group/catchment/pkg/matrix"
)

// scoreRequest is the POST /score body. Distance entries may be null to
// mark unreachable pairs; they are treated as NaN.
type scoreRequest struct {
	model.Spec
	Distances [][]*float64 `json:"distances"`
	Demand    []float64    `json:"demand,omitempty"`
	Supply    []float64    `json:"supply,omitempty"`
}

type scoreResponse struct {
	Model     string    `json:"model"`
	Kernel    string    `json:"kernel"`
	NumDemand int       `json:"num_demand"`
	NumSupply int       `json:"num_supply"`
	Scores    []float64 `json:"scores"`
}

// Handler returns the HTTP handler for the scoring API.
func Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /kernels", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"kernels": decay.Names()})
	})

	mux.HandleFunc("POST /score", handleScore)

	return mux
}

func handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Distances) == 0 {
		writeError(w, http.StatusBadRequest, "distances is required")
		return
	}

	engine, err := req.Spec.Build()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	dist, err := distanceMatrix(req.Distances)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	scores, err := engine.CalculateAccessibilityScores(dist, req.Demand, req.Supply)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	zap.L().Info("server: scored request",
		zap.String("model", req.Spec.Model),
		zap.Int("num_demand", dist.Rows()),
		zap.Int("num_supply", dist.Cols()),
	)

	writeJSON(w, http.StatusOK, scoreResponse{
		Model:     req.Spec.Model,
		Kernel:    req.Spec.KernelName(),
		NumDemand: dist.Rows(),
		NumSupply: dist.Cols(),
		Scores:    scores,
	})
}

// distanceMatrix converts the JSON representation, mapping null entries to
// the NaN unreachable sentinel.
func distanceMatrix(entries [][]*float64) (matrix.Matrix, error) {
	rows := make([][]float64, len(entries))
	for i, row := range entries {
		rows[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				rows[i][j] = math.NaN()
			} else {
				rows[i][j] = *v
			}
		}
	}
	return matrix.FromRows(rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
