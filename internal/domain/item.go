package domain

import "time"

// Item is one card on the board.
type Item struct {
	ID        string
	Column    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemInput holds the caller-supplied fields for a new item.
type ItemInput struct {
	ID      string
	Column  string
	Content string
}

// NewItem constructs an item. Every field is kept verbatim because a drag
// matches on the exact id; only an empty id is rejected.
func NewItem(in ItemInput, now time.Time) (Item, error) {
	if in.ID == "" {
		return Item{}, ErrInvalidID
	}
	return Item{
		ID:        in.ID,
		Column:    in.Column,
		Content:   in.Content,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}
