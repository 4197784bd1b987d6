package app

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/evanschultz/dragboard/internal/domain"
)

func TestExportSnapshotAndMarkdown(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeRepo())
	for _, in := range []domain.ItemInput{
		{ID: "a", Column: "Backlog", Content: "write spec"},
		{ID: "b", Column: "Done", Content: "multi\nline   note"},
		{ID: "c", Column: "Backlog", Content: ""},
	} {
		if _, err := svc.AddItem(ctx, in); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}
	svc.BeginMove("a")

	snap, err := svc.ExportSnapshot(ctx, "  Team  ")
	if err != nil {
		t.Fatalf("ExportSnapshot() error = %v", err)
	}
	if snap.Version != SnapshotVersion || snap.Title != "Team" {
		t.Fatalf("unexpected header %#v", snap)
	}
	if len(snap.Columns) != 3 || len(snap.Items) != 3 {
		t.Fatalf("unexpected snapshot sizes %d/%d", len(snap.Columns), len(snap.Items))
	}
	if snap.MovingItemID != "a" {
		t.Fatalf("expected moving item a, got %q", snap.MovingItemID)
	}

	md := snap.Markdown()
	for _, want := range []string{
		"# Team",
		"## Backlog\n\n- write spec\n- (no content)\n",
		"## In Progress\n\n_empty_\n",
		"## Done\n\n- multi line note\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}

	encoded, err := snap.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Items[1].Content != "multi\nline   note" {
		t.Fatalf("expected raw content preserved in json, got %q", decoded.Items[1].Content)
	}
}
