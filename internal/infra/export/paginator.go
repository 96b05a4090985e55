package export

// paginator is the page-layout state machine, kept free of any PDF handle so
// the placement rules are testable without rendering a document. Rows are
// atomic: a row that does not fit the remaining space goes whole onto the
// next page, never split.
type paginator struct {
	pageHeight   float64
	topMargin    float64
	footerMargin float64

	cursorY   float64
	pageIndex int
}

func newPaginator(pageHeight, topMargin, footerMargin float64) *paginator {
	return &paginator{
		pageHeight:   pageHeight,
		topMargin:    topMargin,
		footerMargin: footerMargin,
		cursorY:      topMargin,
		pageIndex:    1,
	}
}

// fits reports whether a row of the given height can be placed on the
// current page while leaving room for the footer band.
func (p *paginator) fits(rowHeight float64) bool {
	return p.cursorY+rowHeight+p.footerMargin <= p.pageHeight
}

// place reserves rowHeight at the cursor and returns the Y to draw at.
func (p *paginator) place(rowHeight float64) float64 {
	y := p.cursorY
	p.cursorY += rowHeight
	return y
}

// newPage advances the page counter and resets the cursor under the top
// margin. The caller repaints background and sticky header before placing.
func (p *paginator) newPage() {
	p.pageIndex++
	p.cursorY = p.topMargin
}
