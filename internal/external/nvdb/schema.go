package nvdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/nvdbdq/internal/contracts"
)

// FetchObjectType retrieves the metadata (name and property definitions)
// of an object type. Successful results are cached per type ID.
func (c *Client) FetchObjectType(ctx context.Context, typeID int) (*contracts.ObjectType, error) {
	return c.types.GetOrLoad(ctx, typeID, func(ctx context.Context) (*contracts.ObjectType, error) {
		url := fmt.Sprintf("%s%s/%d", c.baseURL, c.schemaPath, typeID)

		var ot contracts.ObjectType
		if err := c.httpClient.GetJSON(ctx, url, nil, &ot); err != nil {
			return nil, classify("fetch object type", typeID, contracts.ErrSchemaNotFound, err)
		}

		if ot.Properties == nil {
			ot.Properties = []contracts.PropertyDefinition{}
		}

		c.logger.WithFields(map[string]interface{}{
			"object_type": typeID,
			"name":        ot.Name,
			"properties":  len(ot.Properties),
		}).Debug("Fetched object type metadata")

		return &ot, nil
	})
}

// FetchSchema returns the declared property definitions of an object type.
// An absent property list is an empty schema, not an error.
func (c *Client) FetchSchema(ctx context.Context, typeID int) ([]contracts.PropertyDefinition, error) {
	ot, err := c.FetchObjectType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	defs := make([]contracts.PropertyDefinition, len(ot.Properties))
	copy(defs, ot.Properties)
	return defs, nil
}

// UnknownName is the placeholder shown when an object type has no resolvable name
func UnknownName(typeID int) string {
	return fmt.Sprintf("(ukjent navn for %d)", typeID)
}

// ResolveName returns the display name of an object type. It never fails:
// any error or missing name yields UnknownName.
func (c *Client) ResolveName(ctx context.Context, typeID int) string {
	ot, err := c.FetchObjectType(ctx, typeID)
	if err != nil {
		c.logger.WithError(err).WithField("object_type", typeID).Debug("Name lookup failed")
		return UnknownName(typeID)
	}

	if name := strings.TrimSpace(ot.Name); name != "" {
		return name
	}
	return UnknownName(typeID)
}
