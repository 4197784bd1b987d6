package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/dragboard/internal/app"
	"github.com/evanschultz/dragboard/internal/domain"
)

// Service represents the board operations the TUI drives.
type Service interface {
	Board(context.Context) (domain.Board, error)
	AddItem(context.Context, domain.ItemInput) (domain.Item, error)
	AddColumn(context.Context, string) (domain.Column, error)
	BeginMove(string)
	CommitMove(context.Context, string) (int, error)
	MovingItemID() string
	NewItemID() string
	ExportSnapshot(context.Context, string) (app.Snapshot, error)
}

// inputMode identifies which input currently owns key presses.
type inputMode int

const (
	modeNone inputMode = iota
	modeAddItem
	modeAddColumn
	modeItemInfo
)

// dragGesture tracks one pointer or keyboard move from pickup to drop.
type dragGesture struct {
	// armed is set when a press lands on an item and no motion has happened yet.
	armed     bool
	active    bool
	pointer   bool
	originID  string
	originCol int
	pressX    int
	pressY    int
	over      int
	// overItem is the item row under the pointer; entering a new one re-signals the move.
	overItem string
}

// idleGesture returns a gesture that hovers nothing.
func idleGesture() dragGesture {
	return dragGesture{originCol: -1, over: -1}
}

// Model is the board view.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help     help.Model
	keys     keyMap
	title    string
	ui       UIConfig
	copyText ClipboardWriter
	markdown *markdownRenderer

	board          domain.Board
	columns        []columnModel
	movingID       string
	selectedColumn int
	selectedItem   int

	mode        inputMode
	formColumn  int
	columnInput textinput.Model
	infoItemID  string

	drag dragGesture

	pendingFocusItemID string
	pendingLastColumn  bool
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	board    domain.Board
	movingID string
	err      error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusItemID string
	lastColumn  bool
}

// yankedMsg reports the outcome of a clipboard copy.
type yankedMsg struct {
	items int
	err   error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:         svc,
		status:      "loading...",
		help:        h,
		keys:        newKeyMap(),
		title:       "Kanban",
		ui:          DefaultUIConfig(),
		copyText:    systemClipboard,
		markdown:    &markdownRenderer{},
		columnInput: newModalInput("column: ", "name of the new column", "", 120),
		formColumn:  -1,
		drag:        idleGesture(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.board = msg.board
		m.movingID = msg.movingID
		m.syncColumns()
		if m.pendingFocusItemID != "" {
			m.focusItemByID(m.pendingFocusItemID)
			m.pendingFocusItemID = ""
		}
		if m.pendingLastColumn {
			m.selectedColumn = len(m.columns) - 1
			m.selectedItem = 0
			m.pendingLastColumn = false
		}
		m.clampSelections()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusItemID != "" {
			m.pendingFocusItemID = msg.focusItemID
		}
		if msg.lastColumn {
			m.pendingLastColumn = true
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case yankedMsg:
		if msg.err != nil {
			m.status = "yank failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("board copied to clipboard (%d items)", msg.items)
		return m, nil

	case moveItemMsg, dropItemMsg, addItemMsg:
		cmd := m.handleColumnMsg(msg)
		return m, cmd

	case tea.KeyPressMsg:
		if m.drag.pointer && (m.drag.armed || m.drag.active) {
			return m.handlePointerDragKey(msg)
		}
		if m.drag.active {
			return m.handleCarryKey(msg)
		}
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		// Cursor blink and paste messages belong to whichever input has focus.
		switch m.mode {
		case modeAddItem:
			if col, ok := m.formColumnModel(); ok {
				return m, col.updateDraft(msg)
			}
		case modeAddColumn:
			var cmd tea.Cmd
			m.columnInput, cmd = m.columnInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	board, err := m.svc.Board(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{board: board, movingID: m.svc.MovingItemID()}
}

// handleColumnMsg forwards one column message to the service.
func (m *Model) handleColumnMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case moveItemMsg:
		m.svc.BeginMove(msg.itemID)
		m.movingID = m.svc.MovingItemID()
		m.status = "moving " + m.itemLabel(msg.itemID)
		return nil

	case dropItemMsg:
		movingID := m.svc.MovingItemID()
		moved, err := m.svc.CommitMove(context.Background(), msg.column)
		if err != nil {
			m.err = err
			return nil
		}
		m.movingID = m.svc.MovingItemID()
		if moved == 0 {
			m.status = "nothing to drop"
			return nil
		}
		m.pendingFocusItemID = movingID
		m.status = fmt.Sprintf("moved to %s", displayColumnName(msg.column))
		return m.loadData

	case addItemMsg:
		return m.addItem(msg.item)
	}
	return nil
}

// addItem appends one item and reloads the board.
func (m Model) addItem(in domain.ItemInput) tea.Cmd {
	return func() tea.Msg {
		item, err := m.svc.AddItem(context.Background(), in)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "item added", reload: true, focusItemID: item.ID}
	}
}

// addColumn appends one column and reloads the board.
func (m Model) addColumn(name string) tea.Cmd {
	return func() tea.Msg {
		column, err := m.svc.AddColumn(context.Background(), name)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{
			status:     "column added: " + displayColumnName(column.Name),
			reload:     true,
			lastColumn: true,
		}
	}
}

// yankBoard copies the markdown rendering of the board to the clipboard.
func (m Model) yankBoard() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.ExportSnapshot(context.Background(), m.title)
		if err != nil {
			return yankedMsg{err: err}
		}
		if err := m.copyText(snap.Markdown()); err != nil {
			return yankedMsg{err: err}
		}
		return yankedMsg{items: len(snap.Items)}
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// handleNormalModeKey handles keys while no input owns focus.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.reload):
			m.err = nil
			m.status = "reloading..."
			return m, m.loadData
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.cancel):
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	case m.help.ShowAll:
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedItem = 0
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			m.selectedItem = 0
		}
		m.clampSelections()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedItem > 0 {
			m.selectedItem--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.selectedItem < len(m.currentColumnItems())-1 {
			m.selectedItem++
		}
		return m, nil
	case key.Matches(msg, m.keys.addItem):
		cmd := m.toggleAddItem(m.selectedColumn)
		return m, cmd
	case key.Matches(msg, m.keys.addColumn):
		m.mode = modeAddColumn
		m.status = "new column"
		m.columnInput.CursorEnd()
		cmd := m.columnInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.pickUp):
		cmd := m.pickUpSelected()
		return m, cmd
	case key.Matches(msg, m.keys.itemInfo):
		item, ok := m.selectedBoardItem()
		if !ok {
			m.status = "no item selected"
			return m, nil
		}
		m.mode = modeItemInfo
		m.infoItemID = item.ID
		m.status = "item info"
		return m, nil
	case key.Matches(msg, m.keys.yank):
		m.status = "copying board..."
		return m, m.yankBoard()
	default:
		return m, nil
	}
}

// handleInputModeKey handles keys while a form or detail view owns focus.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddItem:
		col, ok := m.formColumnModel()
		if !ok {
			m.mode = modeNone
			return m, nil
		}
		switch msg.String() {
		case "esc":
			col.toggleAdd()
			m.mode = modeNone
			m.formColumn = -1
			m.status = "add item cancelled"
			return m, nil
		case "enter":
			out := col.submit(m.svc.NewItemID)
			m.mode = modeNone
			m.formColumn = -1
			cmd := m.handleColumnMsg(out)
			return m, cmd
		default:
			return m, col.updateDraft(msg)
		}

	case modeAddColumn:
		switch msg.String() {
		case "esc":
			m.columnInput.Blur()
			m.mode = modeNone
			m.status = "add column cancelled"
			return m, nil
		case "enter":
			name := m.columnInput.Value()
			m.columnInput.SetValue("")
			m.columnInput.Blur()
			m.mode = modeNone
			return m, m.addColumn(name)
		default:
			var cmd tea.Cmd
			m.columnInput, cmd = m.columnInput.Update(msg)
			return m, cmd
		}

	case modeItemInfo:
		switch {
		case key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.itemInfo), msg.String() == "q":
			m.mode = modeNone
			m.infoItemID = ""
			m.status = "ready"
		}
		return m, nil
	}
	return m, nil
}

// handleCarryKey handles keys while an item is carried with the keyboard.
func (m Model) handleCarryKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.moveLeft):
		m.carryTo(m.drag.over - 1)
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.carryTo(m.drag.over + 1)
		return m, nil
	case key.Matches(msg, m.keys.drop):
		cmd := m.dropOn(m.drag.over)
		return m, cmd
	case key.Matches(msg, m.keys.cancel):
		m.abortDrag()
		m.status = "move cancelled"
		return m, nil
	default:
		return m, nil
	}
}

// handlePointerDragKey handles keys while the mouse owns a gesture. Only
// cancel and quit apply; everything else waits for the release.
func (m Model) handlePointerDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		m.abortDrag()
		m.status = "move cancelled"
	}
	return m, nil
}

// toggleAddItem opens or closes the add-item form on one column.
func (m *Model) toggleAddItem(colIdx int) tea.Cmd {
	if colIdx < 0 || colIdx >= len(m.columns) {
		m.status = "add a column first"
		return nil
	}
	cmd := m.columns[colIdx].toggleAdd()
	if m.columns[colIdx].adding {
		m.mode = modeAddItem
		m.formColumn = colIdx
		m.status = "new item in " + displayColumnName(m.columns[colIdx].name)
		return cmd
	}
	m.mode = modeNone
	m.formColumn = -1
	m.status = "ready"
	return cmd
}

// pickUpSelected starts a keyboard carry of the selected item.
func (m *Model) pickUpSelected() tea.Cmd {
	items := m.currentColumnItems()
	if len(items) == 0 {
		m.status = "no item to pick up"
		return nil
	}
	item := items[clamp(m.selectedItem, 0, len(items)-1)]
	m.drag = idleGesture()
	m.drag.active = true
	m.drag.originID = item.ID
	m.drag.originCol = m.selectedColumn
	m.drag.over = m.selectedColumn
	cmd := m.handleColumnMsg(m.columns[m.selectedColumn].dragEnter(item.ID))
	m.status = "carrying " + m.itemLabel(item.ID)
	return cmd
}

// carryTo moves a keyboard carry onto another column.
func (m *Model) carryTo(colIdx int) {
	if colIdx < 0 || colIdx >= len(m.columns) {
		return
	}
	m.selectedColumn = colIdx
	m.selectedItem = 0
	m.dragTo(boardHit{column: colIdx, item: -1})
}

// dragTo moves the hover to hit. A negative column means the pointer is
// outside every column. Entering an item row signals that item as the one
// being moved; entering blank column space signals nothing.
func (m *Model) dragTo(hit boardHit) {
	itemID := m.itemIDAt(hit)
	if hit.column == m.drag.over {
		if hit.column < 0 {
			return
		}
		if itemID == "" || itemID == m.drag.overItem {
			m.drag.overItem = itemID
			m.columns[hit.column].dragOver()
			return
		}
		m.drag.overItem = itemID
		m.handleColumnMsg(m.columns[hit.column].dragEnter(itemID))
		return
	}
	if m.drag.over >= 0 && m.drag.over < len(m.columns) {
		m.columns[m.drag.over].dragLeave()
	}
	m.drag.over = hit.column
	m.drag.overItem = itemID
	if hit.column >= 0 {
		m.handleColumnMsg(m.columns[hit.column].dragEnter(itemID))
	}
}

// itemIDAt returns the id of the item row under hit, or "" for headers and blank space.
func (m Model) itemIDAt(hit boardHit) string {
	if hit.column < 0 || hit.header || hit.item < 0 {
		return ""
	}
	items := m.itemsForColumn(hit.column)
	if hit.item >= len(items) {
		return ""
	}
	return items[hit.item].ID
}

// dropOn ends the gesture on colIdx. Dropping outside every column commits nothing.
func (m *Model) dropOn(colIdx int) tea.Cmd {
	if colIdx < 0 || colIdx >= len(m.columns) {
		m.abortDrag()
		m.status = "drop cancelled"
		return nil
	}
	out := m.columns[colIdx].drop()
	m.drag = idleGesture()
	m.selectedColumn = colIdx
	return m.handleColumnMsg(out)
}

// abortDrag clears hover state. The service keeps its recorded drag id until
// the next gesture overwrites it.
func (m *Model) abortDrag() {
	if m.drag.over >= 0 && m.drag.over < len(m.columns) {
		m.columns[m.drag.over].dragLeave()
	}
	m.drag = idleGesture()
}

// handleMouseClick handles a button press.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.err != nil || m.help.ShowAll || msg.Button != tea.MouseLeft {
		return m, nil
	}
	if m.drag.active || m.drag.armed {
		return m, nil
	}
	hit := m.hitTest(msg.X, msg.Y)
	if m.mode == modeAddItem && hit.header && hit.column == m.formColumn {
		cmd := m.toggleAddItem(hit.column)
		return m, cmd
	}
	if m.mode != modeNone || hit.column < 0 {
		return m, nil
	}

	m.selectedColumn = hit.column
	switch {
	case hit.header:
		m.selectedItem = 0
		cmd := m.toggleAddItem(hit.column)
		return m, cmd
	case hit.item >= 0:
		items := m.itemsForColumn(hit.column)
		m.selectedItem = hit.item
		m.drag = idleGesture()
		m.drag.armed = true
		m.drag.pointer = true
		m.drag.originID = items[hit.item].ID
		m.drag.originCol = hit.column
		m.drag.pressX = msg.X
		m.drag.pressY = msg.Y
	}
	m.clampSelections()
	return m, nil
}

// handleMouseMotion turns motion with the button held into hover transitions.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.drag.pointer || msg.Button != tea.MouseLeft {
		return m, nil
	}
	var cmd tea.Cmd
	if m.drag.armed {
		if msg.X == m.drag.pressX && msg.Y == m.drag.pressY {
			return m, nil
		}
		if m.drag.originCol < 0 || m.drag.originCol >= len(m.columns) {
			m.drag = idleGesture()
			return m, nil
		}
		m.drag.armed = false
		m.drag.active = true
		m.drag.over = m.drag.originCol
		m.drag.overItem = m.drag.originID
		cmd = m.handleColumnMsg(m.columns[m.drag.originCol].dragEnter(m.drag.originID))
	}
	if !m.drag.active {
		return m, nil
	}
	hit := m.hitTest(msg.X, msg.Y)
	m.dragTo(hit)
	if hit.column >= 0 {
		m.selectedColumn = hit.column
	}
	return m, cmd
}

// handleMouseRelease drops a pointer drag on the column under the pointer.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.drag.pointer {
		return m, nil
	}
	if m.drag.armed {
		// Press and release without motion is a plain click.
		m.drag = idleGesture()
		return m, nil
	}
	hit := m.hitTest(msg.X, msg.Y)
	if hit.column < 0 {
		m.abortDrag()
		m.status = "drop cancelled"
		return m, nil
	}
	m.dragTo(hit)
	cmd := m.dropOn(hit.column)
	return m, cmd
}

// handleMouseWheel moves the item selection in the selected column.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.drag.active {
		return m, nil
	}
	items := m.currentColumnItems()
	if len(items) == 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedItem > 0 {
			m.selectedItem--
		}
	case tea.MouseWheelDown:
		if m.selectedItem < len(items)-1 {
			m.selectedItem++
		}
	}
	return m, nil
}

// syncColumns rebuilds column components after a reload, keeping per-column
// form and hover state for columns that already existed.
func (m *Model) syncColumns() {
	cols := make([]columnModel, len(m.board.Columns))
	for idx, column := range m.board.Columns {
		if idx < len(m.columns) {
			cols[idx] = m.columns[idx]
			cols[idx].name = column.Name
			continue
		}
		cols[idx] = newColumnModel(column.Name)
	}
	m.columns = cols
	if m.formColumn >= len(m.columns) {
		m.formColumn = -1
		if m.mode == modeAddItem {
			m.mode = modeNone
		}
	}
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	if len(m.columns) == 0 {
		m.selectedColumn = 0
		m.selectedItem = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.columns)-1)
	items := m.currentColumnItems()
	if len(items) == 0 {
		m.selectedItem = 0
		return
	}
	m.selectedItem = clamp(m.selectedItem, 0, len(items)-1)
}

// focusItemByID selects the first lane position holding itemID.
func (m *Model) focusItemByID(itemID string) {
	for colIdx, column := range m.board.Columns {
		for itemIdx, item := range m.board.ItemsIn(column.Name) {
			if item.ID == itemID {
				m.selectedColumn = colIdx
				m.selectedItem = itemIdx
				return
			}
		}
	}
}

// formColumnModel returns the column whose add form is open.
func (m *Model) formColumnModel() (*columnModel, bool) {
	if m.formColumn < 0 || m.formColumn >= len(m.columns) {
		return nil, false
	}
	return &m.columns[m.formColumn], true
}

// itemsForColumn returns the lane items of one column index.
func (m Model) itemsForColumn(colIdx int) []domain.Item {
	if colIdx < 0 || colIdx >= len(m.board.Columns) {
		return nil
	}
	return m.board.ItemsIn(m.board.Columns[colIdx].Name)
}

// currentColumnItems returns items in the selected column.
func (m Model) currentColumnItems() []domain.Item {
	return m.itemsForColumn(m.selectedColumn)
}

// selectedBoardItem returns the item under the selection cursor.
func (m Model) selectedBoardItem() (domain.Item, bool) {
	items := m.currentColumnItems()
	if len(items) == 0 {
		return domain.Item{}, false
	}
	return items[clamp(m.selectedItem, 0, len(items)-1)], true
}

// itemLabel returns a short quoted label for status lines.
func (m Model) itemLabel(itemID string) string {
	item, ok := m.board.Item(itemID)
	if !ok {
		return "item"
	}
	content := strings.TrimSpace(strings.Join(strings.Fields(item.Content), " "))
	if content == "" {
		return "item"
	}
	return fmt.Sprintf("%q", truncate(content, 32))
}

// displayColumnName renders empty column names visibly.
func displayColumnName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
