package tui

import (
	"sortable-cli/internal/model"
	"sortable-cli/internal/zone"
)

// Column geometry. Each list renders as a column of bordered cards: a title
// row, a spacer row, then one card per item. Card rects feed both rendering
// and pointer hit-testing, so the two can never disagree.
const (
	headerRows = 2
	cardRows   = 3
	minColW    = 16
)

type cardRect struct {
	listID string
	itemID string
	x, y   int
	w, h   int
}

type columnRect struct {
	listID string
	x, w   int
	// itemsEnd is the first row below the last card.
	itemsEnd int
}

type boardLayout struct {
	cols  []columnRect
	cards []cardRect
	colW  int
}

// buildLayout computes geometry from the displayed orders.
func buildLayout(width int, lists []string, itemsByList map[string][]model.Item) boardLayout {
	n := len(lists)
	if n == 0 {
		return boardLayout{}
	}
	colW := width / n
	if colW < minColW {
		colW = minColW
	}

	var lay boardLayout
	lay.colW = colW
	for i, listID := range lists {
		x := i * colW
		items := itemsByList[listID]
		col := columnRect{
			listID:   listID,
			x:        x,
			w:        colW - 1, // one-column gutter between lists
			itemsEnd: headerRows + len(items)*cardRows,
		}
		lay.cols = append(lay.cols, col)
		for j, it := range items {
			lay.cards = append(lay.cards, cardRect{
				listID: listID,
				itemID: it.ID,
				x:      x,
				y:      headerRows + j*cardRows,
				w:      col.w,
				h:      cardRows,
			})
		}
	}
	return lay
}

// cardAt returns the card under the pointer.
func (l boardLayout) cardAt(x, y int) (cardRect, bool) {
	for _, c := range l.cards {
		if x >= c.x && x < c.x+c.w && y >= c.y && y < c.y+c.h {
			return c, true
		}
	}
	return cardRect{}, false
}

// columnAt returns the column under the pointer.
func (l boardLayout) columnAt(x int) (columnRect, bool) {
	for _, c := range l.cols {
		if x >= c.x && x < c.x+l.colW {
			return c, true
		}
	}
	return columnRect{}, false
}

// zoneRect adapts a card rect for the zone resolver.
func (c cardRect) zoneRect() zone.Rect {
	return zone.Rect{Top: c.y, Height: c.h}
}
