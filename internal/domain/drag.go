package domain

// DragSession tracks the item currently being dragged, if any.
type DragSession struct {
	ItemID string
}

// Active reports whether a drag is in progress.
func (d DragSession) Active() bool {
	return d.ItemID != ""
}

// Begin records itemID and reports whether the session changed.
func (d *DragSession) Begin(itemID string) bool {
	if d.ItemID == itemID {
		return false
	}
	d.ItemID = itemID
	return true
}

// Clear ends the session.
func (d *DragSession) Clear() {
	d.ItemID = ""
}
