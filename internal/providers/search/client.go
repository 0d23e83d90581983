package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sourceField     = "_source"
	defaultPageSize = 10
)

// ErrNotReady is returned while the index bootstrap has not published a
// usable handle yet. Callers surface it as a 503.
var ErrNotReady = errors.New("search index is not ready")

// Config describes the index to provision. An empty Path selects an
// in-memory index. Shards and replicas are carried for parity with a
// clustered engine; the embedded one is single-node.
type Config struct {
	Path     string
	Shards   int
	Replicas int
}

// Document is a stored entity: an internal key, the fields to index and
// the verbatim JSON source that searches hand back.
type Document struct {
	ID     string
	Fields map[string]interface{}
	Source []byte
}

// TermClause is an exact-value match against a single field.
type TermClause struct {
	Field string
	Value string
}

// SearchRequest selects documents. A nil Term means match-all. Page is
// 0-indexed; a non-positive Size falls back to the default page length.
type SearchRequest struct {
	Term *TermClause
	Page int
	Size int
	Sort []string
}

// Client wraps the embedded search engine behind the capability set the
// repositories need: save, search, delete, count. The index handle is
// published by Bootstrap and guarded for concurrent use.
type Client struct {
	mu     sync.RWMutex
	index  bleve.Index
	cfg    Config
	logger *zap.Logger
	closed bool
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// Bootstrap idempotently guarantees the index exists with the board
// schema and publishes the handle. An existence check failure is treated
// as "absent" and creation is attempted anyway; losing a concurrent
// create race falls back to opening what the winner built.
func (c *Client) Bootstrap() error {
	if c.cfg.Path == "" {
		im, err := buildIndexMapping()
		if err != nil {
			return err
		}
		idx, err := bleve.NewMemOnly(im)
		if err != nil {
			return fmt.Errorf("failed to create in-memory index: %w", err)
		}
		c.publish(idx)
		return nil
	}

	exists, err := c.indexExists()
	if err != nil {
		c.logger.Warn("Index existence check failed, attempting creation",
			zap.String("path", c.cfg.Path),
			zap.Error(err),
		)
		exists = false
	}

	if exists {
		idx, err := bleve.Open(c.cfg.Path)
		if err != nil {
			return fmt.Errorf("failed to open index %s: %w", c.cfg.Path, err)
		}
		c.logger.Info("Index already exists", zap.String("path", c.cfg.Path))
		c.publish(idx)
		return nil
	}

	im, err := buildIndexMapping()
	if err != nil {
		return err
	}

	idx, err := bleve.New(c.cfg.Path, im)
	if errors.Is(err, bleve.ErrorIndexPathExists) {
		idx, err = bleve.Open(c.cfg.Path)
	}
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", c.cfg.Path, err)
	}

	c.logger.Info("Index created",
		zap.String("path", c.cfg.Path),
		zap.Int("shards", c.cfg.Shards),
		zap.Int("replicas", c.cfg.Replicas),
	)
	c.publish(idx)
	return nil
}

func (c *Client) indexExists() (bool, error) {
	_, err := os.Stat(c.cfg.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) publish(idx bleve.Index) {
	c.mu.Lock()
	c.index = idx
	c.mu.Unlock()
}

// Ready reports whether the bootstrap has published the index handle.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index != nil && !c.closed
}

func (c *Client) handle() (bleve.Index, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, errors.New("search index is closed")
	}
	if c.index == nil {
		return nil, ErrNotReady
	}
	return c.index, nil
}

// Save upserts a document by its internal key, assigning a fresh random
// key when the document carries none. Existing documents are replaced in
// full; there are no partial updates.
func (c *Client) Save(ctx context.Context, doc *Document) (*Document, error) {
	idx, err := c.handle()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	fields := make(map[string]interface{}, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		if v == nil {
			continue
		}
		fields[k] = v
	}
	fields[sourceField] = string(doc.Source)

	if err := idx.Index(doc.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to index document %s: %w", doc.ID, err)
	}
	return doc, nil
}

// Search returns matching documents ordered per the request sort, or the
// engine's relevance order when no sort is given. Pages past the end of
// the data come back empty.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]*Document, error) {
	idx, err := c.handle()
	if err != nil {
		return nil, err
	}

	var q query.Query
	if req.Term != nil {
		tq := bleve.NewTermQuery(req.Term.Value)
		tq.SetField(req.Term.Field)
		q = tq
	} else {
		q = bleve.NewMatchAllQuery()
	}

	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}
	page := req.Page
	if page < 0 {
		page = 0
	}

	sr := bleve.NewSearchRequestOptions(q, size, page*size, false)
	sr.Fields = []string{sourceField}
	if len(req.Sort) > 0 {
		sr.SortBy(req.Sort)
	}

	res, err := idx.SearchInContext(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	docs := make([]*Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc := &Document{ID: hit.ID}
		if raw, ok := hit.Fields[sourceField].(string); ok {
			doc.Source = []byte(raw)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Delete removes a document by its internal key.
func (c *Client) Delete(ctx context.Context, doc *Document) error {
	idx, err := c.handle()
	if err != nil {
		return err
	}
	if doc == nil || doc.ID == "" {
		return errors.New("document has no internal key")
	}
	if err := idx.Delete(doc.ID); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", doc.ID, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (c *Client) Count(ctx context.Context) (uint64, error) {
	idx, err := c.handle()
	if err != nil {
		return 0, err
	}
	return idx.DocCount()
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.index != nil {
		return c.index.Close()
	}
	return nil
}
