package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/pkg/config"
)

// Params is the raw user input for one analysis, as typed on the command
// line or passed in a query string
type Params struct {
	ObjectType string
	Importance string
	Limit      *int // nil selects the configured default
	Region     int  // 0 selects the configured default
}

// Request is a validated analysis request
type Request struct {
	TypeID int
	Filter contracts.Importance
	Limit  int
	Region int
}

// Limits bounds the batch size a user may ask for
type Limits struct {
	Min     int
	Max     int
	Default int
}

// LimitsFromConfig reads batch bounds from the NVDB configuration
func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		Min:     cfg.NVDB.MinObjects,
		Max:     cfg.NVDB.MaxObjects,
		Default: cfg.NVDB.DefaultObjects,
	}
}

// ParseObjectType accepts a positive decimal integer, surrounding
// whitespace allowed
func ParseObjectType(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &contracts.InputError{Field: "objekttype", Value: raw, Reason: "is required"}
	}

	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, &contracts.InputError{Field: "objekttype", Value: raw, Reason: "must be an integer"}
	}
	if id <= 0 {
		return 0, &contracts.InputError{Field: "objekttype", Value: raw, Reason: "must be positive"}
	}
	return id, nil
}

// ParseRequest validates p against lim. No network access happens here.
func ParseRequest(p Params, lim Limits) (Request, error) {
	id, err := ParseObjectType(p.ObjectType)
	if err != nil {
		return Request{}, err
	}

	filter, err := contracts.ParseImportanceFilter(p.Importance)
	if err != nil {
		return Request{}, err
	}

	limit := lim.Default
	if p.Limit != nil {
		limit = *p.Limit
	}
	if limit < lim.Min || limit > lim.Max {
		return Request{}, &contracts.InputError{
			Field:  "antall",
			Value:  strconv.Itoa(limit),
			Reason: fmt.Sprintf("must be between %d and %d", lim.Min, lim.Max),
		}
	}

	if p.Region < 0 {
		return Request{}, &contracts.InputError{
			Field:  "fylke",
			Value:  strconv.Itoa(p.Region),
			Reason: "must be a positive county number",
		}
	}

	return Request{TypeID: id, Filter: filter, Limit: limit, Region: p.Region}, nil
}
