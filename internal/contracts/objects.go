package contracts

import "encoding/json"

// ObjectQuery identifies one bounded page of objects
type ObjectQuery struct {
	TypeID int
	Region int // fylke code
	Limit  int
}

// ObjectBatch is one decoded page from the objects endpoint
// ⭐ SSOT: fetch → normalize hand-off
type ObjectBatch struct {
	Objects  []RawObject   `json:"objekter"`
	Metadata BatchMetadata `json:"metadata"`
}

// BatchMetadata is the paging block of an objects page
type BatchMetadata struct {
	Returned int       `json:"returnert"`
	PageSize int       `json:"sidestørrelse"`
	Next     *PageLink `json:"neste,omitempty"`
}

// PageLink points at the following page
type PageLink struct {
	Start string `json:"start"`
	Href  string `json:"href"`
}

// Truncated reports whether the registry holds more objects than this page
func (b *ObjectBatch) Truncated() bool {
	if b.Metadata.Next == nil || b.Metadata.Next.Start == "" {
		return false
	}
	return b.Metadata.PageSize > 0 && b.Metadata.Returned >= b.Metadata.PageSize
}

// RawObject is one fetched object (vegobjekt). The id, properties and
// location are kept raw so a malformed block degrades to "no value" for
// that object only.
type RawObject struct {
	ID         json.RawMessage `json:"id,omitempty"`
	Properties json.RawMessage `json:"egenskaper,omitempty"`
	Location   json.RawMessage `json:"lokasjon,omitempty"`
}
