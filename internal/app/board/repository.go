package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bulletin/internal/httperr"
	"bulletin/internal/providers/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const boardIDField = "boardId"

// messages surfaced for lookups that match nothing.
const notFoundMessage = "Invalid Board id."

type Repository interface {
	Post(ctx context.Context, b *Board) (*Board, error)
	Load(ctx context.Context, boardID string) (*Board, error)
	Comment(ctx context.Context, boardID string, cm *Comment) (*Board, error)
	List(ctx context.Context, page, size int) ([]*Board, error)
	Delete(ctx context.Context, boardID string) (string, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	store   *search.Client
	logger  *zap.Logger
	appends sync.Map // boardId -> *sync.Mutex
}

func NewRepository(store *search.Client, logger *zap.Logger) Repository {
	return &repository{store: store, logger: logger}
}

// Post saves a new board under a freshly generated identifier. A board
// that already carries an identifier is an idempotent re-fetch: the stored
// document is returned unchanged and nothing is written.
func (r *repository) Post(ctx context.Context, b *Board) (*Board, error) {
	if b.BoardID != "" {
		return r.Load(ctx, b.BoardID)
	}

	b.BoardID = uuid.NewString()
	if b.Comments == nil {
		b.Comments = []Comment{}
	}
	if b.Created == nil {
		now := time.Now().Unix()
		b.Created = &now
	}
	return r.save(ctx, "", b)
}

// Load resolves a board by its logical identifier with an exact term
// query. Only the first hit counts; anything past it is a data-integrity
// violation and gets logged.
func (r *repository) Load(ctx context.Context, boardID string) (*Board, error) {
	doc, err := r.findDocument(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return decodeBoard(doc)
}

// Comment appends to the parent board's comment list and rewrites the
// whole document under its existing internal key. Appends to the same
// board are serialized so concurrent ones are not lost.
func (r *repository) Comment(ctx context.Context, boardID string, cm *Comment) (*Board, error) {
	mu := r.appendLock(boardID)
	mu.Lock()
	defer mu.Unlock()

	doc, err := r.findDocument(ctx, boardID)
	if err != nil {
		return nil, err
	}
	b, err := decodeBoard(doc)
	if err != nil {
		return nil, err
	}

	cm.BoardID = boardID
	cm.Created = time.Now().Unix()
	b.Comments = append(b.Comments, *cm)

	return r.save(ctx, doc.ID, b)
}

// List pages through all boards in the engine's default order. Pages past
// the available data yield an empty slice, as does a non-positive size:
// the result is never longer than size.
func (r *repository) List(ctx context.Context, page, size int) ([]*Board, error) {
	if size <= 0 {
		return []*Board{}, nil
	}

	docs, err := r.store.Search(ctx, search.SearchRequest{Page: page, Size: size})
	if err != nil {
		return nil, err
	}

	boards := make([]*Board, 0, len(docs))
	for _, doc := range docs {
		b, err := decodeBoard(doc)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, nil
}

// Delete removes the board by its internal document key and returns the
// logical identifier of what was removed.
func (r *repository) Delete(ctx context.Context, boardID string) (string, error) {
	doc, err := r.findDocument(ctx, boardID)
	if err != nil {
		return "", err
	}
	if err := r.store.Delete(ctx, doc); err != nil {
		return "", err
	}
	return boardID, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func (r *repository) findDocument(ctx context.Context, boardID string) (*search.Document, error) {
	docs, err := r.store.Search(ctx, search.SearchRequest{
		Term: &search.TermClause{Field: boardIDField, Value: boardID},
		Size: 2,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, httperr.NotFound(notFoundMessage)
	}
	if len(docs) > 1 {
		r.logger.Error("Duplicate boardId in index",
			zap.String("board_id", boardID),
			zap.Int("hits", len(docs)),
		)
	}
	return docs[0], nil
}

func (r *repository) save(ctx context.Context, internalID string, b *Board) (*Board, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode board %s: %w", b.BoardID, err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to build index fields for board %s: %w", b.BoardID, err)
	}

	_, err = r.store.Save(ctx, &search.Document{ID: internalID, Fields: fields, Source: raw})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repository) appendLock(boardID string) *sync.Mutex {
	mu, _ := r.appends.LoadOrStore(boardID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func decodeBoard(doc *search.Document) (*Board, error) {
	var b Board
	if err := json.Unmarshal(doc.Source, &b); err != nil {
		return nil, fmt.Errorf("failed to decode board document %s: %w", doc.ID, err)
	}
	return &b, nil
}
