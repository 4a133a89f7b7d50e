package nvdb

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/pkg/cache"
	"github.com/wonny/nvdbdq/pkg/config"
	"github.com/wonny/nvdbdq/pkg/httputil"
	"github.com/wonny/nvdbdq/pkg/logger"
)

// Client handles communication with the NVDB read API (NVDB API Les v4)
// ⭐ SSOT: NVDB calls are made from this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger

	baseURL     string
	schemaPath  string
	objectsPath string

	defaultRegion int
	maxObjects    int

	types   *cache.Memory[int, *contracts.ObjectType]
	objects *cache.Memory[contracts.ObjectQuery, *contracts.ObjectBatch]
}

// NewClient creates a new NVDB client with its own fetch caches
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:    httpClient,
		logger:        log,
		baseURL:       strings.TrimRight(cfg.NVDB.BaseURL, "/"),
		schemaPath:    "/" + strings.Trim(cfg.NVDB.SchemaPath, "/"),
		objectsPath:   "/" + strings.Trim(cfg.NVDB.ObjectsPath, "/"),
		defaultRegion: cfg.NVDB.DefaultRegion,
		maxObjects:    cfg.NVDB.MaxObjects,
		types:         cache.NewMemory[int, *contracts.ObjectType]("vegobjekttyper", cfg.Cache.TTL, log),
		objects:       cache.NewMemory[contracts.ObjectQuery, *contracts.ObjectBatch]("vegobjekter", cfg.Cache.TTL, log),
	}
}

// CacheStats reports usage of both fetch caches
func (c *Client) CacheStats() []cache.Stats {
	return []cache.Stats{c.types.Stats(), c.objects.Stats()}
}

// classify maps a transport or status failure onto the error kinds.
// A 404 means the registry does not know the object type.
func classify(op string, typeID int, notFound error, err error) error {
	switch code := httputil.StatusCode(err); {
	case code == http.StatusNotFound:
		return &contracts.NotFoundError{Kind: notFound, ObjectTypeID: typeID}
	case code != 0:
		return &contracts.UpstreamError{Op: op, StatusCode: code, Err: err}
	default:
		return &contracts.UpstreamError{Op: op, Err: fmt.Errorf("object type %d: %w", typeID, err)}
	}
}
