package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/internal/quality"
	"github.com/wonny/nvdbdq/internal/table"
	"github.com/wonny/nvdbdq/pkg/config"
	"github.com/wonny/nvdbdq/pkg/logger"
)

const (
	// PreviewRows is the number of leading rows shown in a result preview
	PreviewRows = 5
	// HistogramBins is the number of equal-width score buckets
	HistogramBins = 20
)

// Catalog is the registry surface an analysis needs
type Catalog interface {
	FetchSchema(ctx context.Context, typeID int) ([]contracts.PropertyDefinition, error)
	ResolveName(ctx context.Context, typeID int) string
	FetchObjects(ctx context.Context, q contracts.ObjectQuery) (*contracts.ObjectBatch, error)
}

// Explorer runs the fetch → normalize → score → aggregate pipeline
// ⭐ SSOT: stage ordering lives here only
type Explorer struct {
	catalog       Catalog
	limits        Limits
	defaultRegion int
	logger        *logger.Logger
	newRunID      func() string
}

// Result holds everything a presentation layer needs for one analysis
type Result struct {
	RunID        string               `json:"run_id"`
	ObjectTypeID int                  `json:"object_type_id"`
	Name         string               `json:"name"`
	Filter       contracts.Importance `json:"viktighet"`
	Region       int                  `json:"fylke"`
	Limit        int                  `json:"antall"`
	RowCount     int                  `json:"row_count"`
	Truncated    bool                 `json:"truncated"`

	Selected  []string              `json:"selected"`
	Missing   []quality.ColumnCount `json:"missing"`
	Present   []quality.ColumnCount `json:"present"`
	Scores    []float64             `json:"scores"`
	MeanScore float64               `json:"mean_score"`
	Histogram []quality.Bin         `json:"histogram"`

	PreviewColumns []string                 `json:"preview_columns"`
	Preview        []map[string]interface{} `json:"preview"`

	Duration time.Duration `json:"-"`

	// Table is the normalized batch with kompletthet_score appended
	Table *table.Table `json:"-"`
}

// Description is the name and declared properties of an object type
type Description struct {
	ObjectTypeID int                            `json:"object_type_id" yaml:"objekttype"`
	Name         string                         `json:"name" yaml:"navn"`
	Properties   []contracts.PropertyDefinition `json:"egenskapstyper" yaml:"egenskapstyper"`
}

// NewExplorer creates an explorer over catalog
func NewExplorer(catalog Catalog, cfg *config.Config, log *logger.Logger) *Explorer {
	return &Explorer{
		catalog:       catalog,
		limits:        LimitsFromConfig(cfg),
		defaultRegion: cfg.NVDB.DefaultRegion,
		logger:        log,
		newRunID:      func() string { return uuid.New().String() },
	}
}

// Limits returns the batch bounds this explorer validates against
func (e *Explorer) Limits() Limits {
	return e.limits
}

// Run validates p and executes the analysis
func (e *Explorer) Run(ctx context.Context, p Params) (*Result, error) {
	req, err := ParseRequest(p, e.limits)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, req)
}

// Execute runs a validated request. The schema is fetched first; if it
// fails no objects are requested.
func (e *Explorer) Execute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.Region == 0 {
		req.Region = e.defaultRegion
	}

	result := &Result{
		RunID:        e.newRunID(),
		ObjectTypeID: req.TypeID,
		Filter:       req.Filter,
		Region:       req.Region,
		Limit:        req.Limit,
	}

	log := e.logger.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"object_type": req.TypeID,
		"viktighet":   string(req.Filter),
		"antall":      req.Limit,
		"fylke":       req.Region,
	})
	log.Info("Starting analysis")

	defs, err := e.catalog.FetchSchema(ctx, req.TypeID)
	if err != nil {
		log.WithError(err).Warn("Schema fetch failed")
		return nil, fmt.Errorf("schema: %w", err)
	}

	batch, err := e.catalog.FetchObjects(ctx, contracts.ObjectQuery{
		TypeID: req.TypeID,
		Region: req.Region,
		Limit:  req.Limit,
	})
	if err != nil {
		log.WithError(err).Warn("Object fetch failed")
		return nil, fmt.Errorf("objects: %w", err)
	}

	tbl := table.Normalize(batch)
	result.Name = e.catalog.ResolveName(ctx, req.TypeID)
	result.RowCount = tbl.Len()
	result.Truncated = batch.Truncated()

	selected := quality.SelectProperties(defs, req.Filter, tbl)
	report, err := quality.Analyze(tbl, selected)
	if err != nil {
		log.WithField("declared", len(defs)).Warn("No applicable properties")
		return nil, err
	}

	scored := quality.WithScores(tbl, report)
	preview := scored.Head(PreviewRows)

	result.Selected = report.Selected
	result.Missing = report.Missing
	result.Present = report.Present
	result.Scores = report.RowScores
	result.MeanScore = report.MeanScore
	result.Histogram = quality.Histogram(report.RowScores, HistogramBins)
	result.PreviewColumns = preview.Columns()
	result.Preview = preview.Records()
	result.Table = scored
	result.Duration = time.Since(start)

	log.WithFields(map[string]interface{}{
		"rows":        result.RowCount,
		"selected":    len(result.Selected),
		"missing":     report.TotalMissing(),
		"mean_score":  result.MeanScore,
		"truncated":   result.Truncated,
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Analysis completed")

	return result, nil
}

// Describe returns the name and declared properties of an object type
func (e *Explorer) Describe(ctx context.Context, objectType string) (*Description, error) {
	id, err := ParseObjectType(objectType)
	if err != nil {
		return nil, err
	}

	defs, err := e.catalog.FetchSchema(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	return &Description{
		ObjectTypeID: id,
		Name:         e.catalog.ResolveName(ctx, id),
		Properties:   defs,
	}, nil
}

// GroupByImportance splits definitions by classification, keeping schema
// order within each group. Unknown classifications are grouped as-is.
func GroupByImportance(defs []contracts.PropertyDefinition) map[contracts.Importance][]contracts.PropertyDefinition {
	groups := make(map[contracts.Importance][]contracts.PropertyDefinition)
	for _, d := range defs {
		groups[d.Importance] = append(groups[d.Importance], d)
	}
	return groups
}
