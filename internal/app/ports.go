package app

import (
	"context"
	"time"

	"github.com/evanschultz/dragboard/internal/domain"
)

// Repository stores the board's columns and items in insertion order.
type Repository interface {
	CreateColumn(context.Context, domain.Column) error
	ListColumns(context.Context) ([]domain.Column, error)

	CreateItem(context.Context, domain.Item) error
	// MoveItems sets column and updated time on every item carrying id and
	// reports how many moved. Content is never touched.
	MoveItems(ctx context.Context, id, column string, at time.Time) (int, error)
	ListItems(context.Context) ([]domain.Item, error)
	ListItemsByColumn(context.Context, string) ([]domain.Item, error)
}
