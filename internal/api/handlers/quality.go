package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/internal/pipeline"
	"github.com/wonny/nvdbdq/internal/report"
	"github.com/wonny/nvdbdq/pkg/logger"
)

// Explorer runs analyses and schema lookups
type Explorer interface {
	Run(ctx context.Context, p pipeline.Params) (*pipeline.Result, error)
	Describe(ctx context.Context, objectType string) (*pipeline.Description, error)
}

// QualityHandler handles object-type and completeness endpoints
// ⭐ SSOT: analysis API handlers live in this struct only
type QualityHandler struct {
	explorer Explorer
	logger   *logger.Logger
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(explorer Explorer, log *logger.Logger) *QualityHandler {
	return &QualityHandler{
		explorer: explorer,
		logger:   log,
	}
}

// GetObjectType returns the name and declared properties of an object type
// GET /api/object-types/{id}
func (h *QualityHandler) GetObjectType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	desc, err := h.explorer.Describe(r.Context(), id)
	if err != nil {
		h.logFailure(err, id, "Object type lookup failed")
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, desc)
}

// GetQuality runs a completeness analysis
// GET /api/object-types/{id}/quality?viktighet=&antall=&fylke=
func (h *QualityHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyze(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetQualityXLSX runs a completeness analysis and returns it as a workbook
// GET /api/object-types/{id}/quality.xlsx
func (h *QualityHandler) GetQualityXLSX(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, result); err != nil {
		h.logger.WithError(err).Error("Failed to build workbook")
		respondError(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", report.ContentTypeXLSX)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="kompletthet-%d.xlsx"`, result.ObjectTypeID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *QualityHandler) analyze(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	params, err := parseParams(r)
	if err != nil {
		respondFailure(w, err)
		return nil, false
	}

	result, err := h.explorer.Run(r.Context(), params)
	if err != nil {
		h.logFailure(err, params.ObjectType, "Analysis failed")
		respondFailure(w, err)
		return nil, false
	}
	return result, true
}

// parseParams reads the analysis parameters from the path and query;
// absent numeric parameters fall back to configured defaults
func parseParams(r *http.Request) (pipeline.Params, error) {
	q := r.URL.Query()
	p := pipeline.Params{
		ObjectType: mux.Vars(r)["id"],
		Importance: q.Get("viktighet"),
	}

	if raw := q.Get("antall"); raw != "" {
		n, err := queryInt(raw, "antall")
		if err != nil {
			return p, err
		}
		p.Limit = &n
	}

	var err error
	if p.Region, err = queryInt(q.Get("fylke"), "fylke"); err != nil {
		return p, err
	}
	return p, nil
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &contracts.InputError{Field: field, Value: raw, Reason: "must be an integer"}
	}
	return n, nil
}

// logFailure logs server-side failures loudly and caller mistakes quietly
func (h *QualityHandler) logFailure(err error, objectType, msg string) {
	log := h.logger.WithError(err).WithFields(map[string]interface{}{
		"object_type": objectType,
		"kind":        contracts.ErrorKind(err),
	})
	if StatusFor(err) >= http.StatusInternalServerError {
		log.Error(msg)
		return
	}
	log.Debug(msg)
}
