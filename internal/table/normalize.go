package table

import (
	"encoding/json"
	"math"

	"github.com/spf13/cast"

	"github.com/wonny/nvdbdq/internal/contracts"
)

// Normalize flattens every fetched object into one row: id, each embedded
// property by name, and (when a location block is present) lat, lon, fylke
// and kommune. Malformed sub-blocks yield no value for that object only.
// The output has exactly one row per input object and is deterministic.
func Normalize(batch *contracts.ObjectBatch) *Table {
	t := New()
	if batch == nil {
		return t
	}

	for _, obj := range batch.Objects {
		t.Append(normalizeObject(obj))
	}
	return t
}

func normalizeObject(obj contracts.RawObject) Row {
	r := NewRow()

	r.Set(ColumnID, objectID(obj.ID))

	for _, p := range decodeProperties(obj.Properties) {
		if p.name == "" || IsReserved(p.name) {
			continue
		}
		r.Set(p.name, p.value)
	}

	applyLocation(&r, obj.Location)
	return r
}

// objectID reads an object id leniently; anything but an integer is no value
func objectID(raw json.RawMessage) interface{} {
	var v interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return nil
		}
	case string:
	default:
		return nil
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return nil
	}
	return id
}

type property struct {
	name  string
	value interface{}
}

// decodeProperties decodes egenskaper entry by entry so one bad entry
// does not discard its siblings
func decodeProperties(raw json.RawMessage) []property {
	var entries []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &entries) != nil {
		return nil
	}

	props := make([]property, 0, len(entries))
	for _, e := range entries {
		var p struct {
			Name  *string     `json:"navn"`
			Value interface{} `json:"verdi"`
		}
		if json.Unmarshal(e, &p) != nil || p.Name == nil {
			continue
		}
		props = append(props, property{name: *p.Name, value: p.Value})
	}
	return props
}

// applyLocation assigns location columns when lokasjon is a JSON object.
// fylke and kommune are always assigned in that case, as nil when the
// list is missing or empty; lat and lon only when geometri carries wgs84.
func applyLocation(r *Row, raw json.RawMessage) {
	var loc map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &loc) != nil || loc == nil {
		return
	}

	if lat, lon, ok := wgs84(loc["geometri"]); ok {
		r.Set(ColumnLat, lat)
		r.Set(ColumnLon, lon)
	}

	r.Set(ColumnCounty, firstIdentifier(loc["fylker"]))
	r.Set(ColumnMunicipality, firstIdentifier(loc["kommuner"]))
}

func wgs84(raw json.RawMessage) (lat, lon interface{}, ok bool) {
	var geom map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &geom) != nil {
		return nil, nil, false
	}

	var pair map[string]interface{}
	w, found := geom["wgs84"]
	if !found || json.Unmarshal(w, &pair) != nil || pair == nil {
		return nil, nil, false
	}

	return coordinate(pair["lat"]), coordinate(pair["lon"]), true
}

// coordinate coerces numbers and numeric strings; anything else is no value
func coordinate(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return f
}

func firstIdentifier(raw json.RawMessage) interface{} {
	var list []interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &list) != nil || len(list) == 0 {
		return nil
	}
	return identifier(list[0])
}

// identifier turns integral JSON numbers into int64 so codes print as 34, not 34.0
func identifier(v interface{}) interface{} {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return v
	}
	n, err := cast.ToInt64E(f)
	if err != nil {
		return v
	}
	return n
}
