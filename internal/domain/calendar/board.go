package calendar

import (
	"context"
	"sync"

	"eventboard-go/internal/domain/events"
)

type WeekLoader interface {
	Week(ctx context.Context, userID string, weekStart events.Date) (WeekView, error)
}

// Board holds the week a user is looking at. Each Navigate takes a token
// from a monotonically increasing sequence and only commits its result if no
// newer Navigate started in the meantime.
type Board struct {
	userID string
	loader WeekLoader

	mu      sync.Mutex
	latest  uint64
	current WeekView
	loaded  bool
}

func NewBoard(userID string, loader WeekLoader) *Board {
	return &Board{userID: userID, loader: loader}
}

// Navigate resolves weekStart and commits it. A superseded pass returns
// ErrStaleResult and leaves the board alone; a failed pass returns the error
// and also leaves the committed view unchanged.
func (b *Board) Navigate(ctx context.Context, weekStart events.Date) (WeekView, error) {
	b.mu.Lock()
	b.latest++
	token := b.latest
	b.mu.Unlock()

	view, err := b.loader.Week(ctx, b.userID, weekStart)

	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.latest {
		return WeekView{}, ErrStaleResult
	}
	if err != nil {
		return WeekView{}, err
	}
	b.current = view
	b.loaded = true
	return view, nil
}

// Current returns the committed view and whether one exists.
func (b *Board) Current() (WeekView, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.loaded
}

// Boards keeps one Board per user.
type Boards struct {
	loader WeekLoader

	mu     sync.Mutex
	boards map[string]*Board
}

func NewBoards(loader WeekLoader) *Boards {
	return &Boards{
		loader: loader,
		boards: make(map[string]*Board),
	}
}

func (b *Boards) For(userID string) *Board {
	b.mu.Lock()
	defer b.mu.Unlock()

	board, ok := b.boards[userID]
	if !ok {
		board = NewBoard(userID, b.loader)
		b.boards[userID] = board
	}
	return board
}
