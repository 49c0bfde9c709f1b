// Package tui renders the interactive board: list columns of cards with
// mouse-driven drag and drop between them.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sortable-cli/internal/config"
	"sortable-cli/internal/controller"
	"sortable-cli/internal/docs"
	"sortable-cli/internal/model"
	"sortable-cli/internal/perm"
	"sortable-cli/internal/registry"
	"sortable-cli/internal/store"
	"sortable-cli/internal/zone"
)

// Run opens the board TUI for the given configuration and store.
func Run(b config.Board, st store.Store) error {
	applyColorProfile()
	p := tea.NewProgram(newBoardModel(b, st), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

type pressState struct {
	listID string
	itemID string
	x, y   int
}

type hoverState struct {
	target  model.DropTarget
	allowed bool
}

type loadedMsg struct {
	items    map[string][]model.Item
	attached map[string]int
	err      error
}

type boardModel struct {
	board  config.Board
	store  store.Store
	broker *registry.Broker
	ctrls  map[string]*controller.Controller
	order  []string

	attached map[string]int

	width, height int
	keys          keyMap
	help          help.Model
	showDocs      bool

	focusList, focusItem int

	press    *pressState
	dragging bool
	hover    *hoverState

	errMsg string
}

func newBoardModel(b config.Board, st store.Store) boardModel {
	broker := registry.NewBroker()
	policy := perm.Policy{SelfImplicit: b.SelfImplicitEnabled()}
	sink := store.BatchSink{Store: st}

	m := boardModel{
		board:    b,
		store:    st,
		broker:   broker,
		ctrls:    map[string]*controller.Controller{},
		attached: map[string]int{},
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	for _, l := range b.Lists {
		m.order = append(m.order, l.ID)
		m.ctrls[l.ID] = controller.New(controller.Options{
			ListID:         l.ID,
			AllowedTargets: l.Targets(),
			MultiSelect:    b.MultiSelect,
			Filter:         b.Filter(),
			Policy:         policy,
			Broker:         broker,
			Sink:           sink,
		})
	}
	return m
}

func (m boardModel) Init() tea.Cmd { return m.loadCmd() }

// loadCmd re-reads every list from the store: the authoritative refresh half
// of the round-trip contract.
func (m boardModel) loadCmd() tea.Cmd {
	st := m.store
	lists := append([]string{}, m.order...)
	return func() tea.Msg {
		ctx := context.Background()
		out := loadedMsg{items: map[string][]model.Item{}}
		for _, listID := range lists {
			items, err := st.ItemsForList(ctx, listID)
			if err != nil {
				out.err = err
				return out
			}
			out.items[listID] = items
		}
		attached, err := st.AttachmentCounts(ctx)
		if err != nil {
			out.err = err
			return out
		}
		out.attached = attached
		return out
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		for listID, items := range msg.items {
			if c, ok := m.ctrls[listID]; ok {
				c.Refresh(items)
			}
		}
		m.attached = msg.attached
		m.clampFocus()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m boardModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showDocs {
		m.showDocs = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelGesture()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.cancelGesture()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Docs):
		m.showDocs = true
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.focusList > 0 {
			m.focusList--
			m.clampFocus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.focusList < len(m.order)-1 {
			m.focusList++
			m.clampFocus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.focusItem > 0 {
			m.focusItem--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.focusItem++
		m.clampFocus()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if c := m.focusedCtrl(); c != nil {
			items := c.Items()
			if m.focusItem < len(items) {
				c.ToggleSelect(items[m.focusItem].ID)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m boardModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	lay := m.layout()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if card, ok := lay.cardAt(msg.X, msg.Y); ok {
			if c := m.ctrls[card.listID]; c != nil && c.PointerDown(card.itemID) == nil {
				m.press = &pressState{listID: card.listID, itemID: card.itemID, x: msg.X, y: msg.Y}
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.press == nil {
			return m, nil
		}
		src := m.ctrls[m.press.listID]
		if src == nil {
			m.press = nil
			return m, nil
		}
		if !m.dragging {
			if msg.X == m.press.x && msg.Y == m.press.y {
				return m, nil
			}
			if err := src.BeginDrag(); err != nil {
				m.press = nil
				return m, nil
			}
			m.dragging = true
		}
		m.updateHover(lay, src, msg.X, msg.Y)
		return m, nil

	case tea.MouseActionRelease:
		if m.press == nil {
			return m, nil
		}
		src := m.ctrls[m.press.listID]

		if !m.dragging {
			// Plain click: focus the card, no gesture.
			if src != nil {
				src.EndDrag()
			}
			m.focusTo(m.press.listID, m.press.itemID)
			m.press = nil
			return m, nil
		}
		return m.resolveDrop(src)
	}
	return m, nil
}

// updateHover recomputes the drop target under the pointer. Redundant
// updates for the same target and zone are debounced by the session.
func (m *boardModel) updateHover(lay boardLayout, src *controller.Controller, x, y int) {
	entry, active := m.broker.Active()
	if !active {
		m.hover = nil
		return
	}

	var target model.DropTarget
	if card, ok := lay.cardAt(x, y); ok {
		target = model.DropTarget{
			ListID:       card.listID,
			TargetItemID: card.itemID,
			Zone:         zone.Resolve(card.zoneRect(), y, m.board.Zone(), m.board.AllowOn),
		}
	} else if col, ok := lay.columnAt(x); ok {
		target = model.DropTarget{ListID: col.listID, Zone: model.ZoneAfter}
		if items := m.ctrls[col.listID].Items(); len(items) > 0 {
			// Blank space below a non-empty list inserts after its last card.
			target.TargetItemID = items[len(items)-1].ID
		}
	} else {
		m.hover = nil
		return
	}

	src.Hover(target)

	allowed := m.ctrls[target.ListID].HoverAllowed(entry)
	for _, id := range entry.MovedItemIDs {
		if target.TargetItemID != "" && id == target.TargetItemID {
			allowed = false
			break
		}
	}
	m.hover = &hoverState{target: target, allowed: allowed}
}

// resolveDrop runs the drop on the hovered list, then funnels the gesture end
// through the same cleanup as a cancel and refreshes from the store.
func (m boardModel) resolveDrop(src *controller.Controller) (tea.Model, tea.Cmd) {
	entry, active := m.broker.Active()
	if active && src != nil && m.hover != nil && m.hover.allowed {
		tgt := m.ctrls[m.hover.target.ListID]
		if tgt != nil {
			res, applied := tgt.ReceiveDrop(*entry, m.hover.target)
			if applied && len(res.SourceOrder) > 0 && entry.SourceListID != m.hover.target.ListID {
				src.ApplySourceOrder(res.SourceOrder)
			}
		}
	}
	if src != nil {
		src.FinishDrop()
	}
	m.press = nil
	m.dragging = false
	m.hover = nil
	return m, m.loadCmd()
}

func (m *boardModel) cancelGesture() {
	if m.press != nil {
		if src := m.ctrls[m.press.listID]; src != nil {
			src.EndDrag()
		}
	}
	m.press = nil
	m.dragging = false
	m.hover = nil
}

func (m *boardModel) focusTo(listID, itemID string) {
	for i, id := range m.order {
		if id == listID {
			m.focusList = i
			break
		}
	}
	if c := m.ctrls[listID]; c != nil {
		if idx := c.Snapshot().Index(itemID); idx >= 0 {
			m.focusItem = idx
		}
	}
}

func (m *boardModel) clampFocus() {
	if m.focusList >= len(m.order) {
		m.focusList = len(m.order) - 1
	}
	if m.focusList < 0 {
		m.focusList = 0
	}
	if c := m.focusedCtrl(); c != nil {
		if n := len(c.Items()); m.focusItem >= n {
			m.focusItem = n - 1
		}
	}
	if m.focusItem < 0 {
		m.focusItem = 0
	}
}

func (m boardModel) focusedCtrl() *controller.Controller {
	if m.focusList < 0 || m.focusList >= len(m.order) {
		return nil
	}
	return m.ctrls[m.order[m.focusList]]
}

// layout derives the current geometry; Update and View share it so pointer
// hit-testing always matches what is on screen.
func (m boardModel) layout() boardLayout {
	itemsByList := map[string][]model.Item{}
	for _, listID := range m.order {
		itemsByList[listID] = m.ctrls[listID].Items()
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	return buildLayout(width, m.order, itemsByList)
}

func (m boardModel) View() string {
	if m.showDocs {
		body, _ := docs.Get("dragging")
		return renderMarkdown(body, min(m.width-2, 76)) + "\n\n" + m.help.FullHelpView(m.keys.FullHelp())
	}

	lay := m.layout()
	cols := make([]string, 0, len(m.order))
	for i, listID := range m.order {
		cols = append(cols, m.viewColumn(lay, i, listID))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	status := m.statusLine()
	return board + "\n" + status + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m boardModel) viewColumn(lay boardLayout, idx int, listID string) string {
	c := m.ctrls[listID]
	items := c.Items()
	colW := lay.colW
	cardW := colW - 1

	l, _ := m.board.Find(listID)
	title := truncateToWidth(fmt.Sprintf("%s (%d)", l.DisplayTitle(), len(items)), cardW)

	var b strings.Builder
	b.WriteString(padToWidth(styleListTitle.Render(title), colW))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", colW))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(padToWidth(styleMuted.Render("(empty)"), colW))
	}

	draggedSet := m.draggedSet()
	for j, it := range items {
		card := m.viewCard(it, cardW-2, draggedSet, idx == m.focusList && j == m.focusItem)
		for _, line := range strings.Split(card, "\n") {
			b.WriteString(padToWidth(line, colW))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m boardModel) viewCard(it model.Item, innerW int, dragged map[string]bool, focused bool) string {
	c := m.ctrls[it.ListID]

	marker := " "
	if c != nil && c.Selected(it.ID) {
		marker = "◆"
	}
	label := it.Title
	if label == "" {
		label = it.ID
	}
	if n := m.attached[it.ID]; n > 0 {
		label = fmt.Sprintf("%s ↳%d", label, n)
	}

	style := styleCard
	switch {
	case dragged[it.ID]:
		style = styleCardDragged
	case m.hover != nil && m.hover.target.TargetItemID == it.ID:
		if m.hover.allowed {
			style = styleCardDropOK
			marker = zoneGlyph(m.hover.target.Zone)
		} else {
			style = styleCardDropNo
			marker = "✕"
		}
	case focused:
		style = styleCardSelected
	}

	content := truncateToWidth(marker+" "+label, innerW)
	return style.Width(innerW).Render(content)
}

func (m boardModel) draggedSet() map[string]bool {
	out := map[string]bool{}
	if !m.dragging {
		return out
	}
	if entry, ok := m.broker.Active(); ok {
		for _, id := range entry.MovedItemIDs {
			out[id] = true
		}
	}
	return out
}

func (m boardModel) statusLine() string {
	if m.errMsg != "" {
		return styleStatus.Render(truncateToWidth("error: "+m.errMsg, m.width))
	}
	if m.dragging {
		entry, ok := m.broker.Active()
		if !ok {
			return styleStatus.Render("dragging…")
		}
		where := "…"
		if m.hover != nil {
			verdict := "not allowed"
			if m.hover.allowed {
				verdict = string(m.hover.target.Zone)
			}
			where = fmt.Sprintf("%s (%s)", m.hover.target.ListID, verdict)
		}
		return styleStatus.Render(truncateToWidth(
			fmt.Sprintf("moving %d item(s) from %s → %s", len(entry.MovedItemIDs), entry.SourceListID, where), m.width))
	}
	if c := m.focusedCtrl(); c != nil {
		if sel := c.Selection(); len(sel) > 0 {
			return styleStatus.Render(fmt.Sprintf("%d selected in %s", len(sel), c.ListID()))
		}
	}
	return styleStatus.Render("drag cards with the mouse; ? for help")
}

func zoneGlyph(z model.DropZone) string {
	switch z {
	case model.ZoneBefore:
		return "▲"
	case model.ZoneOn:
		return "●"
	default:
		return "▼"
	}
}

