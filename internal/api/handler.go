package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/cardio-risk/internal/config"
	"github.com/kartoza/cardio-risk/internal/httputil"
	"github.com/kartoza/cardio-risk/internal/models"
	"github.com/kartoza/cardio-risk/internal/predict"
	"github.com/kartoza/cardio-risk/internal/registry"
	"github.com/kartoza/cardio-risk/internal/render"
)

// maxBodyBytes bounds the predict request body
const maxBodyBytes = 16 << 10

// Handler provides HTTP API endpoints
type Handler struct {
	cfg      config.Config
	loader   *registry.Loader
	invoker  *predict.Invoker
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewHandler creates a new API handler. invoker is nil when the models
// could not be loaded; predictions are then refused.
func NewHandler(
	cfg config.Config,
	loader *registry.Loader,
	invoker *predict.Invoker,
	renderer *render.Renderer,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:      cfg,
		loader:   loader,
		invoker:  invoker,
		renderer: renderer,
		logger:   logger,
	}
}

// PredictResponse is the body of a successful prediction
type PredictResponse struct {
	ID          string           `json:"id"`
	Result      render.Result    `json:"result"`
	Predictions *predict.Outcome `json:"predictions"`
}

// StatusResponse reports model availability
type StatusResponse struct {
	Ready bool   `json:"ready"`
	Stale bool   `json:"stale"`
	Error string `json:"error,omitempty"`
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Form
	r.HandleFunc("/schema", h.handleSchema).Methods("GET")
	r.HandleFunc("/strings", h.handleStrings).Methods("GET")

	// Models
	r.HandleFunc("/status", h.handleStatus).Methods("GET")
	r.HandleFunc("/predict", h.handlePredict).Methods("POST")
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":       h.cfg.Version,
		"language":      h.renderer.Lang(),
		"models_loaded": h.invoker != nil,
	}
	httputil.RespondJSON(w, http.StatusOK, info)
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.Fields())
}

func (h *Handler) handleStrings(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.renderer.Strings())
}

// handleStatus reports whether predictions can be served
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := StatusResponse{Ready: h.invoker != nil}
	if h.loader != nil {
		avail := h.loader.Load()
		status.Ready = status.Ready && avail.Ready()
		status.Stale = h.loader.Stale()
		if err := avail.Err(); err != nil {
			status.Error = err.Error()
		}
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}

// handlePredict validates a patient record and runs all three models on it
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if h.invoker == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, h.renderer.Strings().Unavailable)
		return
	}

	var req models.PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := models.Validate(req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	rec := req.Record()
	if err := models.Validate(rec); err != nil {
		h.respondInvalid(w, err)
		return
	}

	out, err := h.invoker.Predict(r.Context(), rec)
	if err != nil {
		h.logger.Error("prediction failed",
			zap.String("request_id", httputil.GetRequestID(r.Context())),
			zap.Error(err),
		)
		httputil.RespondError(w, http.StatusInternalServerError, h.renderer.Strings().PredictFail)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, PredictResponse{
		ID:          out.ID,
		Result:      h.renderer.Render(out),
		Predictions: out,
	})
}

func (h *Handler) respondInvalid(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  verr.Error(),
		"fields": verr.Fields,
	})
}
