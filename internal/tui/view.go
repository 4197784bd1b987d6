package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/dragboard/internal/domain"
)

const (
	// headerRows is the title line plus one spacer above the board.
	headerRows = 2
	// footerRows is the add-column line, the status line and the help line.
	footerRows = 3
	// columnChrome is the rounded border (2) plus horizontal padding (2).
	columnChrome = 4
	columnGap    = 1
)

// boardHit describes what sits under one terminal cell.
type boardHit struct {
	column int
	item   int
	header bool
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render(m.title)
	header += statusStyle.Render(fmt.Sprintf("  %d columns • %d items", len(m.board.Columns), m.board.VisibleCount()))
	header += statusStyle.Render("  [" + m.modeLabel() + "]")

	var body string
	if len(m.columns) == 0 {
		body = lipgloss.NewStyle().Foreground(muted).Render(
			fmt.Sprintf("No columns yet. Press %s to add one.", m.keys.addColumn.Help().Key),
		)
		body = fitLines(body, m.columnInnerHeight()+2)
	} else {
		views := make([]string, 0, len(m.columns)*2)
		for idx := range m.columns {
			if idx > 0 {
				views = append(views, strings.Repeat(" ", columnGap))
			}
			views = append(views, m.renderColumn(idx, accent, muted, dim))
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, views...)
	}

	footer := []string{m.renderAddColumnLine(muted)}
	status := ""
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		status = m.status
	}
	footer = append(footer, statusStyle.Render(truncate(status, max(1, m.width))))

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width))
	helpLine := helpBubble.View(m.keys)
	if m.drag.active && !m.drag.pointer {
		helpLine = helpBubble.ShortHelpView(m.keys.carryHelp())
	}
	footer = append(footer, lipgloss.NewStyle().Foreground(muted).Render(helpLine))

	sections := append([]string{header, "", body}, footer...)
	content := strings.Join(sections, "\n")
	if m.height > 0 {
		content = fitLines(content, m.height)
	}

	overlay := ""
	switch {
	case m.help.ShowAll:
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	case m.mode == modeItemInfo:
		overlay = m.renderItemDetails(accent, muted, dim)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(content)
		if m.height > 0 {
			overlayHeight = m.height
		}
		content = overlayOnContent(content, overlay, max(1, m.width), max(1, overlayHeight))
	}

	view := tea.NewView(content)
	view.MouseMode = tea.MouseModeCellMotion
	view.AltScreen = true
	return view
}

// renderColumn renders one column box with exactly columnInnerHeight lines.
func (m Model) renderColumn(idx int, accent, muted, dim color.Color) string {
	col := m.columns[idx]
	width := m.columnWidth()
	items := m.itemsForColumn(idx)

	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	movingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	dropStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	idStyle := lipgloss.NewStyle().Foreground(muted)

	marker := "+"
	if col.adding {
		marker = "-"
	}
	label := fmt.Sprintf("%s (%d)", displayColumnName(col.name), len(items))
	label = truncate(label, max(1, width-2))
	gap := max(1, width-lipgloss.Width(label)-1)
	lines := []string{colTitle.Render(label) + strings.Repeat(" ", gap) + emptyStyle.Render(marker)}
	if col.adding {
		lines = append(lines, padLine(col.draft.View(), width))
	}
	if col.hovering {
		lines = append(lines, dropStyle.Render(padLine("▸ drop here", width)))
	}

	if len(items) == 0 {
		lines = append(lines, emptyStyle.Render(padLine("(empty)", width)))
	} else {
		start, end := m.itemWindow(idx, len(items))
		for itemIdx := start; itemIdx < end; itemIdx++ {
			item := items[itemIdx]
			selected := idx == m.selectedColumn && itemIdx == m.selectedItem
			moving := m.drag.active && item.ID == m.movingID

			prefix := "  "
			switch {
			case moving:
				prefix = "» "
			case selected:
				prefix = "│ "
			}
			text := itemText(item)
			suffix := ""
			if m.ui.ShowItemIDs {
				suffix = " #" + truncate(item.ID, 8)
			}
			room := max(1, width-len([]rune(prefix))-len([]rune(suffix)))
			line := prefix + truncate(text, room)
			switch {
			case moving:
				line = movingStyle.Render(line)
			case selected:
				line = selectedStyle.Render(line)
			}
			if suffix != "" {
				line += idStyle.Render(suffix)
			}
			lines = append(lines, padLine(line, width))
		}
	}

	content := fitLines(strings.Join(lines, "\n"), m.columnInnerHeight())
	border := dim
	switch {
	case col.hovering:
		border = lipgloss.Color("212")
	case idx == m.selectedColumn:
		border = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(content)
}

// renderAddColumnLine renders the add-column input or its hint.
func (m Model) renderAddColumnLine(muted color.Color) string {
	if m.mode == modeAddColumn {
		return truncateANSI(m.columnInput.View(), max(1, m.width))
	}
	hint := fmt.Sprintf("%s add column • drag items with the mouse or %s to pick up", m.keys.addColumn.Help().Key, m.keys.pickUp.Help().Key)
	return lipgloss.NewStyle().Foreground(muted).Render(truncate(hint, max(1, m.width)))
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 48, 90)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("dragboard help")
	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Moving items"),
		"mouse: press an item, drag onto another column, release to drop",
		fmt.Sprintf("keys: %s pick up • h/l carry • enter drop • esc cancel", m.keys.pickUp.Help().Key),
		"click a column header to open its add-item form",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderItemDetails renders the item detail overlay.
func (m Model) renderItemDetails(accent, muted, dim color.Color) string {
	item, ok := m.board.Item(m.infoItemID)
	if !ok {
		return ""
	}
	width := clamp(m.width-8, 32, 90)

	body := strings.TrimSpace(item.Content)
	if body != "" && m.ui.RenderMarkdown {
		body = m.markdown.render(item.Content, width-4)
	}
	if body == "" {
		body = lipgloss.NewStyle().Foreground(muted).Render("(no content)")
	}

	meta := fmt.Sprintf("column: %s  id: %s", displayColumnName(item.Column), item.ID)
	if !item.UpdatedAt.IsZero() {
		meta += "  updated: " + item.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Item"),
		lipgloss.NewStyle().Foreground(muted).Render(meta),
		"",
		body,
		"",
		lipgloss.NewStyle().Foreground(muted).Render("esc close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// modeLabel returns the header label for the current interaction.
func (m Model) modeLabel() string {
	switch {
	case m.drag.active && m.drag.pointer:
		return "dragging"
	case m.drag.active:
		return "carrying"
	}
	switch m.mode {
	case modeAddItem:
		return "add item"
	case modeAddColumn:
		return "add column"
	case modeItemInfo:
		return "item info"
	default:
		return "board"
	}
}

// hitTest maps a terminal cell to the column, item or header under it.
func (m Model) hitTest(x, y int) boardHit {
	miss := boardHit{column: -1, item: -1}
	if len(m.columns) == 0 || x < 0 {
		return miss
	}
	stride := m.columnStride()
	colIdx := x / stride
	if colIdx >= len(m.columns) || x-colIdx*stride >= m.columnWidth()+columnChrome {
		return miss
	}
	top := m.boardTop()
	innerHeight := m.columnInnerHeight()
	if y < top || y > top+innerHeight+1 {
		return miss
	}

	hit := boardHit{column: colIdx, item: -1}
	row := y - top - 1
	if row < 0 || row >= innerHeight {
		return hit
	}
	if row == 0 {
		hit.header = true
		return hit
	}
	idx := row - m.columnHeaderRows(colIdx)
	if idx < 0 {
		return hit
	}
	items := m.itemsForColumn(colIdx)
	start, end := m.itemWindow(colIdx, len(items))
	if start+idx < end {
		hit.item = start + idx
	}
	return hit
}

// columnHeaderRows counts the lines above the first item in one column.
func (m Model) columnHeaderRows(colIdx int) int {
	rows := 1
	if m.columns[colIdx].adding {
		rows++
	}
	if m.columns[colIdx].hovering {
		rows++
	}
	return rows
}

// itemWindow returns the visible item range of one column.
func (m Model) itemWindow(colIdx, total int) (int, int) {
	capacity := max(1, m.columnInnerHeight()-m.columnHeaderRows(colIdx))
	selected := 0
	if colIdx == m.selectedColumn {
		selected = m.selectedItem
	}
	return windowBounds(total, selected, capacity)
}

// boardTop returns the screen row of the column boxes' top border.
func (m Model) boardTop() int {
	return headerRows
}

// columnWidth returns the text width inside one column box.
func (m Model) columnWidth() int {
	if len(m.columns) == 0 {
		return 24
	}
	w := 28
	if m.width > 0 {
		usable := m.width - len(m.columns)*(columnChrome+columnGap)
		if candidate := usable / len(m.columns); candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 16, 40)
}

// columnStride returns the horizontal distance between column origins.
func (m Model) columnStride() int {
	return m.columnWidth() + columnChrome + columnGap
}

// columnInnerHeight returns the number of text lines inside one column box.
func (m Model) columnInnerHeight() int {
	h := m.height - headerRows - footerRows - 2
	if h < 6 {
		return 6
	}
	return h
}

// itemText folds item content onto one line.
func itemText(item domain.Item) string {
	text := strings.Join(strings.Fields(item.Content), " ")
	if text == "" {
		return "(no content)"
	}
	return text
}

// windowBounds returns an inclusive-exclusive list window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	half := windowSize / 2
	start := selected - half
	if start < 0 {
		start = 0
	}
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// padLine truncates or pads a styled line to exactly width cells.
func padLine(s string, width int) string {
	s = truncateANSI(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// truncateANSI truncates a styled string without cutting escape sequences.
func truncateANSI(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
