package domain

// Board is a point-in-time view of every column and item.
type Board struct {
	Columns []Column
	Items   []Item
}

// Lane pairs a column with the items filtered into it.
type Lane struct {
	Column Column
	Items  []Item
}

// ItemsIn returns the items whose column equals name, in insertion order.
func (b Board) ItemsIn(name string) []Item {
	out := make([]Item, 0)
	for _, item := range b.Items {
		if item.Column == name {
			out = append(out, item)
		}
	}
	return out
}

// Lanes returns one lane per column in column order.
func (b Board) Lanes() []Lane {
	out := make([]Lane, 0, len(b.Columns))
	for _, column := range b.Columns {
		out = append(out, Lane{Column: column, Items: b.ItemsIn(column.Name)})
	}
	return out
}

// VisibleCount counts items that land in at least one lane.
func (b Board) VisibleCount() int {
	names := make(map[string]struct{}, len(b.Columns))
	for _, column := range b.Columns {
		names[column.Name] = struct{}{}
	}
	count := 0
	for _, item := range b.Items {
		if _, ok := names[item.Column]; ok {
			count++
		}
	}
	return count
}

// Item returns the first item with the given id.
func (b Board) Item(id string) (Item, bool) {
	for _, item := range b.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
