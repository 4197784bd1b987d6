package domain

import "time"

// Column is a named lane. Names are not required to be unique.
type Column struct {
	Name      string
	Position  int
	CreatedAt time.Time
}

// NewColumn constructs a column at the given position.
func NewColumn(name string, position int, now time.Time) (Column, error) {
	if position < 0 {
		return Column{}, ErrInvalidPosition
	}
	return Column{
		Name:      name,
		Position:  position,
		CreatedAt: now.UTC(),
	}, nil
}
