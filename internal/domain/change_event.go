package domain

import "time"

// ChangeOperation names a board mutation.
type ChangeOperation string

// ChangeOperation values emitted by the board coordinator.
const (
	ChangeOperationAddItem    ChangeOperation = "add_item"
	ChangeOperationAddColumn  ChangeOperation = "add_column"
	ChangeOperationBeginMove  ChangeOperation = "begin_move"
	ChangeOperationCommitMove ChangeOperation = "commit_move"
)

// ChangeEvent describes one applied board mutation.
type ChangeEvent struct {
	Seq        int64
	Operation  ChangeOperation
	ItemID     string
	Column     string
	FromColumn string
	Moved      int
	OccurredAt time.Time
}
