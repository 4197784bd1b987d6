package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"github.com/evanschultz/dragboard/internal/domain"
)

// moveItemMsg asks the board to record itemID as the dragged item.
type moveItemMsg struct {
	itemID string
}

// dropItemMsg asks the board to commit the active drag into column.
type dropItemMsg struct {
	column string
}

// addItemMsg asks the board to append a new item.
type addItemMsg struct {
	item domain.ItemInput
}

// columnModel is the per-column drop target and add-item form.
type columnModel struct {
	name     string
	hovering bool
	adding   bool
	draft    textinput.Model
}

// newColumnModel constructs column model.
func newColumnModel(name string) columnModel {
	return columnModel{
		name:  name,
		draft: newModalInput("+ ", "new item", "", 500),
	}
}

// dragEnter marks the column as hovered. A non-empty itemID means the pointer
// entered over that item, so the column asks the board to start moving it.
func (c *columnModel) dragEnter(itemID string) tea.Msg {
	c.hovering = true
	if itemID == "" {
		return nil
	}
	return moveItemMsg{itemID: itemID}
}

// dragOver keeps the column hovered.
func (c *columnModel) dragOver() {
	c.hovering = true
}

// dragLeave returns the column to idle.
func (c *columnModel) dragLeave() {
	c.hovering = false
}

// drop reports the drop upward before returning to idle.
func (c *columnModel) drop() tea.Msg {
	msg := dropItemMsg{column: c.name}
	c.hovering = false
	return msg
}

// toggleAdd opens or closes the add-item form. Closing keeps the draft.
func (c *columnModel) toggleAdd() tea.Cmd {
	c.adding = !c.adding
	if c.adding {
		c.draft.CursorEnd()
		return c.draft.Focus()
	}
	c.draft.Blur()
	return nil
}

// submit packages the draft as a new item, then clears and closes the form.
func (c *columnModel) submit(newID func() string) tea.Msg {
	msg := addItemMsg{item: domain.ItemInput{
		ID:      newID(),
		Column:  c.name,
		Content: c.draft.Value(),
	}}
	c.draft.SetValue("")
	c.draft.Blur()
	c.adding = false
	return msg
}

// updateDraft forwards editing keys to the draft input.
func (c *columnModel) updateDraft(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.draft, cmd = c.draft.Update(msg)
	return cmd
}
