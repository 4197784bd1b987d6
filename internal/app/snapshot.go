package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SnapshotVersion tags exported snapshots.
const SnapshotVersion = "dragboard.snapshot.v1"

// Snapshot is a portable copy of the board.
type Snapshot struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	Title        string           `json:"title,omitempty"`
	Columns      []SnapshotColumn `json:"columns"`
	Items        []SnapshotItem   `json:"items"`
	MovingItemID string           `json:"moving_item_id,omitempty"`
}

// SnapshotColumn represents snapshot column data used by this package.
type SnapshotColumn struct {
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotItem represents snapshot item data used by this package.
type SnapshotItem struct {
	ID        string    `json:"id"`
	Column    string    `json:"column"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportSnapshot captures the current board and drag session.
func (s *Service) ExportSnapshot(ctx context.Context, title string) (Snapshot, error) {
	board, err := s.Board(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:      SnapshotVersion,
		ExportedAt:   s.clock().UTC(),
		Title:        strings.TrimSpace(title),
		Columns:      make([]SnapshotColumn, 0, len(board.Columns)),
		Items:        make([]SnapshotItem, 0, len(board.Items)),
		MovingItemID: s.MovingItemID(),
	}
	for _, column := range board.Columns {
		snap.Columns = append(snap.Columns, SnapshotColumn{
			Name:      column.Name,
			Position:  column.Position,
			CreatedAt: column.CreatedAt.UTC(),
		})
	}
	for _, item := range board.Items {
		snap.Items = append(snap.Items, SnapshotItem{
			ID:        item.ID,
			Column:    item.Column,
			Content:   item.Content,
			CreatedAt: item.CreatedAt.UTC(),
			UpdatedAt: item.UpdatedAt.UTC(),
		})
	}
	return snap, nil
}

// JSON encodes the snapshot with indentation and a trailing newline.
func (snap Snapshot) JSON() ([]byte, error) {
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot json: %w", err)
	}
	return append(encoded, '\n'), nil
}

// Markdown renders the board as one heading per column with a bullet per item.
func (snap Snapshot) Markdown() string {
	var b strings.Builder
	title := snap.Title
	if title == "" {
		title = "Board"
	}
	fmt.Fprintf(&b, "# %s\n", title)
	for _, column := range snap.Columns {
		name := column.Name
		if strings.TrimSpace(name) == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", name)
		count := 0
		for _, item := range snap.Items {
			if item.Column != column.Name {
				continue
			}
			count++
			fmt.Fprintf(&b, "- %s\n", singleLine(item.Content))
		}
		if count == 0 {
			b.WriteString("_empty_\n")
		}
	}
	return b.String()
}

// singleLine folds multi-line content so it stays inside one list bullet.
func singleLine(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "(no content)"
	}
	return strings.Join(fields, " ")
}
