package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/evanschultz/dragboard/internal/app"
	"github.com/evanschultz/dragboard/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestRepository_ColumnItemLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

	for idx, name := range []string{"Backlog", "In Progress", "Done"} {
		column, err := domain.NewColumn(name, idx, now)
		if err != nil {
			t.Fatalf("NewColumn() error = %v", err)
		}
		if err := repo.CreateColumn(ctx, column); err != nil {
			t.Fatalf("CreateColumn() error = %v", err)
		}
	}
	columns, err := repo.ListColumns(ctx)
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	if len(columns) != 3 || columns[1].Name != "In Progress" || !columns[1].CreatedAt.Equal(now) {
		t.Fatalf("unexpected columns %#v", columns)
	}

	for _, in := range []domain.ItemInput{
		{ID: "a", Column: "Backlog", Content: "write spec"},
		{ID: "b", Column: "Done", Content: "ship"},
		{ID: "c", Column: "Backlog", Content: ""},
	} {
		item, err := domain.NewItem(in, now)
		if err != nil {
			t.Fatalf("NewItem() error = %v", err)
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem() error = %v", err)
		}
	}

	items, err := repo.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 3 || items[0].ID != "a" || items[2].ID != "c" {
		t.Fatalf("unexpected insertion order %#v", items)
	}

	moved, err := repo.MoveItems(ctx, "a", "Done", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("MoveItems() error = %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected one row moved, got %d", moved)
	}
	done, err := repo.ListItemsByColumn(ctx, "Done")
	if err != nil {
		t.Fatalf("ListItemsByColumn() error = %v", err)
	}
	if len(done) != 2 || done[0].ID != "a" || done[1].ID != "b" {
		t.Fatalf("expected move to keep insertion order, got %#v", done)
	}
	if !done[0].UpdatedAt.Equal(now.Add(time.Minute)) || !done[0].CreatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps %#v", done[0])
	}
	backlog, err := repo.ListItemsByColumn(ctx, "Backlog")
	if err != nil {
		t.Fatalf("ListItemsByColumn() error = %v", err)
	}
	if len(backlog) != 1 || backlog[0].ID != "c" {
		t.Fatalf("unexpected backlog %#v", backlog)
	}
}

func TestRepository_MoveMissingItem(t *testing.T) {
	repo := openTestRepo(t)
	moved, err := repo.MoveItems(context.Background(), "missing", "Done", time.Now())
	if err != nil {
		t.Fatalf("MoveItems() error = %v", err)
	}
	if moved != 0 {
		t.Fatalf("expected nothing moved, got %d", moved)
	}
}

func TestRepository_DuplicateIDsMoveTogether(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	for _, content := range []string{"one", "two"} {
		item, _ := domain.NewItem(domain.ItemInput{ID: "dup", Column: "Backlog", Content: content}, now)
		if err := repo.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem() error = %v", err)
		}
	}
	moved, err := repo.MoveItems(ctx, "dup", "Done", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("MoveItems() error = %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected both rows moved, got %d", moved)
	}
	done, _ := repo.ListItemsByColumn(ctx, "Done")
	if len(done) != 2 || done[0].Content != "one" || done[1].Content != "two" {
		t.Fatalf("expected both rows moved with their own content, got %#v", done)
	}
}

func TestRepository_InMemoryStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	first := openTestRepo(t)
	second := openTestRepo(t)
	column, _ := domain.NewColumn("Backlog", 0, time.Now())
	if err := first.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn() error = %v", err)
	}
	columns, err := second.ListColumns(ctx)
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	if len(columns) != 0 {
		t.Fatalf("expected fresh store, got %#v", columns)
	}
}

func TestRepository_ServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	svc := app.NewService(repo, func() string { return "i1" }, nil, app.ServiceConfig{})
	if _, err := svc.EnsureDefaultColumns(ctx); err != nil {
		t.Fatalf("EnsureDefaultColumns() error = %v", err)
	}
	if _, err := svc.AddItem(ctx, domain.ItemInput{ID: svc.NewItemID(), Column: "Backlog", Content: "write spec"}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	svc.BeginMove("i1")
	if _, err := svc.CommitMove(ctx, "In Progress"); err != nil {
		t.Fatalf("CommitMove() error = %v", err)
	}
	board, err := svc.Board(ctx)
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if len(board.ItemsIn("Backlog")) != 0 || len(board.ItemsIn("In Progress")) != 1 {
		t.Fatalf("unexpected board %#v", board)
	}
}

func TestRepository_ServiceMoveKeepsDuplicateContent(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	svc := app.NewService(repo, nil, nil, app.ServiceConfig{})
	if _, err := svc.EnsureDefaultColumns(ctx); err != nil {
		t.Fatalf("EnsureDefaultColumns() error = %v", err)
	}
	for _, content := range []string{"one", "two"} {
		if _, err := svc.AddItem(ctx, domain.ItemInput{ID: "dup", Column: "Backlog", Content: content}); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}
	svc.BeginMove("dup")
	moved, err := svc.CommitMove(ctx, "Done")
	if err != nil {
		t.Fatalf("CommitMove() error = %v", err)
	}
	if moved != 2 {
		t.Fatalf("expected two rows moved, got %d", moved)
	}
	done, err := svc.ItemsInColumn(ctx, "Done")
	if err != nil {
		t.Fatalf("ItemsInColumn() error = %v", err)
	}
	if len(done) != 2 || done[0].Content != "one" || done[1].Content != "two" {
		t.Fatalf("expected duplicates to keep their own content, got %#v", done)
	}
}
