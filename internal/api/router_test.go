package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/nvdbdq/internal/api/handlers"
	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/internal/pipeline"
	"github.com/wonny/nvdbdq/internal/report"
	"github.com/wonny/nvdbdq/pkg/cache"
	"github.com/wonny/nvdbdq/pkg/config"
	"github.com/wonny/nvdbdq/pkg/logger"
)

// stubCatalog knows object type 79 only and can be told to fail upstream
type stubCatalog struct {
	upstreamDown bool
	objectCalls  int
}

func (s *stubCatalog) FetchSchema(ctx context.Context, typeID int) ([]contracts.PropertyDefinition, error) {
	if s.upstreamDown {
		return nil, &contracts.UpstreamError{Op: "fetch object type", StatusCode: http.StatusServiceUnavailable}
	}
	if typeID != 79 {
		return nil, &contracts.NotFoundError{Kind: contracts.ErrSchemaNotFound, ObjectTypeID: typeID}
	}
	return []contracts.PropertyDefinition{
		{ID: 1, Name: "Diameter", Importance: contracts.ImportanceRequiredNotAbsolute},
		{ID: 2, Name: "Materiale", Importance: contracts.ImportanceRequiredAbsolute},
		{ID: 3, Name: "Merknad", Importance: contracts.ImportanceOptional},
	}, nil
}

func (s *stubCatalog) ResolveName(ctx context.Context, typeID int) string {
	return "Stikkrenne/Kulvert"
}

func (s *stubCatalog) FetchObjects(ctx context.Context, q contracts.ObjectQuery) (*contracts.ObjectBatch, error) {
	s.objectCalls++

	body := `{"objekter": [`
	for i := 0; i < 4; i++ {
		if i > 0 {
			body += ","
		}
		props := `{"navn": "Materiale", "verdi": "Betong"}`
		if i != 0 {
			props += `, {"navn": "Diameter", "verdi": 600}`
		}
		body += fmt.Sprintf(`{"id": %d, "egenskaper": [%s]}`, i+1, props)
	}
	body += `]}`

	var batch contracts.ObjectBatch
	if err := json.Unmarshal([]byte(body), &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

type stubCaches struct{}

func (stubCaches) CacheStats() []cache.Stats {
	return []cache.Stats{{Name: "vegobjekttyper", Entries: 1, Hits: 2, Misses: 1}}
}

func newTestRouter(catalog pipeline.Catalog) http.Handler {
	log := logger.Nop()
	explorer := pipeline.NewExplorer(catalog, config.Default(), log)
	return NewRouter(
		handlers.NewQualityHandler(explorer, log),
		handlers.NewHealthHandler(stubCaches{}, "nvdbdq"),
		log,
	)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(&stubCatalog{}), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "nvdbdq", body.Service)
	require.Len(t, body.Caches, 1)
	assert.Equal(t, int64(2), body.Caches[0].Hits)
}

func TestGetObjectType(t *testing.T) {
	rec := get(t, newTestRouter(&stubCatalog{}), "/api/object-types/79")
	require.Equal(t, http.StatusOK, rec.Code)

	var desc pipeline.Description
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&desc))
	assert.Equal(t, 79, desc.ObjectTypeID)
	assert.Equal(t, "Stikkrenne/Kulvert", desc.Name)
	assert.Len(t, desc.Properties, 3)
}

func TestGetQuality(t *testing.T) {
	rec := get(t, newTestRouter(&stubCatalog{}), "/api/object-types/79/quality?viktighet=ALLE&antall=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result pipeline.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 4, result.RowCount)
	assert.Equal(t, []string{"Diameter", "Materiale"}, result.Selected)
	assert.Equal(t, "Diameter", result.Missing[0].Column)
	assert.Equal(t, 1, result.Missing[0].Count)
	assert.Len(t, result.Histogram, pipeline.HistogramBins)
	assert.Len(t, result.Preview, 4)
	assert.Equal(t, 34, result.Region)
	assert.NotEmpty(t, result.RunID)
}

func TestGetQuality_Errors(t *testing.T) {
	tests := []struct {
		name     string
		catalog  *stubCatalog
		target   string
		status   int
		kind     string
		noObject bool
	}{
		{"non-numeric id", &stubCatalog{}, "/api/object-types/abc/quality", http.StatusBadRequest, "InvalidInput", true},
		{"bad filter", &stubCatalog{}, "/api/object-types/79/quality?viktighet=VIKTIG", http.StatusBadRequest, "InvalidInput", true},
		{"bad antall", &stubCatalog{}, "/api/object-types/79/quality?antall=mange", http.StatusBadRequest, "InvalidInput", true},
		{"antall zero", &stubCatalog{}, "/api/object-types/79/quality?antall=0", http.StatusBadRequest, "InvalidInput", true},
		{"antall out of range", &stubCatalog{}, "/api/object-types/79/quality?antall=5000", http.StatusBadRequest, "InvalidInput", true},
		{"unknown type", &stubCatalog{}, "/api/object-types/999999/quality", http.StatusNotFound, "SchemaNotFound", true},
		{"no applicable", &stubCatalog{}, "/api/object-types/79/quality?viktighet=OPSJONELL", http.StatusUnprocessableEntity, "NoApplicableProperties", false},
		{"upstream down", &stubCatalog{upstreamDown: true}, "/api/object-types/79/quality", http.StatusBadGateway, "UpstreamError", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestRouter(tt.catalog), tt.target)
			assert.Equal(t, tt.status, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)

			if tt.noObject {
				assert.Zero(t, tt.catalog.objectCalls)
			}
		})
	}
}

func TestGetQualityXLSX(t *testing.T) {
	rec := get(t, newTestRouter(&stubCatalog{}), "/api/object-types/79/quality.xlsx?antall=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "kompletthet-79.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.SheetData, report.SheetMissing, report.SheetCompleteness}, f.GetSheetList())
	v, err := f.GetCellValue(report.SheetMissing, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Diameter", v)
}

func TestNotFoundRoute(t *testing.T) {
	rec := get(t, newTestRouter(&stubCatalog{}), "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&contracts.InputError{Field: "objekttype"}, http.StatusBadRequest},
		{&contracts.NotFoundError{Kind: contracts.ErrSchemaNotFound}, http.StatusNotFound},
		{&contracts.NotFoundError{Kind: contracts.ErrObjectTypeNotFound}, http.StatusNotFound},
		{fmt.Errorf("analyze: %w", contracts.ErrNoApplicableProperties), http.StatusUnprocessableEntity},
		{&contracts.UpstreamError{Op: "x", Err: errors.New("timeout")}, http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, handlers.StatusFor(tt.err), tt.err.Error())
	}
}
