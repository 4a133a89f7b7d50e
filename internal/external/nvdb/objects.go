package nvdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/nvdbdq/internal/contracts"
)

// includeBlocks is the set of embedded blocks requested per object
const includeBlocks = "metadata,egenskaper,lokasjon"

// NormalizeQuery fills in the default region and clamps the limit to
// [1, maxObjects]. The normalized query is also the cache key.
func (c *Client) NormalizeQuery(q contracts.ObjectQuery) contracts.ObjectQuery {
	if q.Region <= 0 {
		q.Region = c.defaultRegion
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if c.maxObjects > 0 && q.Limit > c.maxObjects {
		q.Limit = c.maxObjects
	}
	return q
}

// FetchObjects retrieves a single page of at most q.Limit objects of one
// type within one county. Results beyond the page are not requested.
func (c *Client) FetchObjects(ctx context.Context, q contracts.ObjectQuery) (*contracts.ObjectBatch, error) {
	q = c.NormalizeQuery(q)

	return c.objects.GetOrLoad(ctx, q, func(ctx context.Context) (*contracts.ObjectBatch, error) {
		endpoint := fmt.Sprintf("%s%s/%d", c.baseURL, c.objectsPath, q.TypeID)
		params := url.Values{
			"inkluder": {includeBlocks},
			"antall":   {strconv.Itoa(q.Limit)},
			"fylke":    {strconv.Itoa(q.Region)},
		}

		var batch contracts.ObjectBatch
		if err := c.httpClient.GetJSON(ctx, endpoint, params, &batch); err != nil {
			return nil, classify("fetch objects", q.TypeID, contracts.ErrObjectTypeNotFound, err)
		}

		// some deployments ignore antall; never hand back more than asked for
		if len(batch.Objects) > q.Limit {
			batch.Objects = batch.Objects[:q.Limit]
		}

		c.logger.WithFields(map[string]interface{}{
			"object_type": q.TypeID,
			"region":      q.Region,
			"limit":       q.Limit,
			"returned":    len(batch.Objects),
			"truncated":   batch.Truncated(),
		}).Info("Fetched objects")

		return &batch, nil
	})
}
