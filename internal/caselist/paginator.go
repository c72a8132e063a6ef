package caselist

// CursorPaginator tracks the position in a cursor-paginated result set.
// The store only issues forward cursors, so backward movement is
// reconstructed from a local stack of previously seen cursors. The stack
// is only valid for one query identity; the engine resets the paginator
// whenever the identity changes.
//
// Invariant: currentPageIndex == 0 iff the stack is empty and the current
// cursor is "" (the first page).
type CursorPaginator struct {
	currentCursor    string
	cursorStack      []string
	currentPageIndex int
}

// Reset returns the paginator to the first page and discards the cursor
// history.
func (p *CursorPaginator) Reset() {
	p.currentCursor = ""
	p.cursorStack = nil
	p.currentPageIndex = 0
}

// CurrentCursor returns the cursor for the current page; "" means the
// first page.
func (p *CursorPaginator) CurrentCursor() string { return p.currentCursor }

// CurrentPageIndex returns the zero-based index of the current page.
func (p *CursorPaginator) CurrentPageIndex() int { return p.currentPageIndex }

// HasPrevious reports whether a previous page exists.
func (p *CursorPaginator) HasPrevious() bool { return p.currentPageIndex > 0 }

// Advance moves to the next page. It is a no-op (returning false) when
// the current page reported no more results or no next cursor. The
// current cursor is pushed onto the stack — unless it is the first-page
// sentinel, which the stack does not record.
func (p *CursorPaginator) Advance(nextCursor string, hasMore bool) bool {
	if !hasMore || nextCursor == "" {
		return false
	}
	if p.currentCursor != "" {
		p.cursorStack = append(p.cursorStack, p.currentCursor)
	}
	p.currentCursor = nextCursor
	p.currentPageIndex++
	return true
}

// Retreat moves to the previous page, popping the most recent cursor off
// the stack; an empty stack means the first page. No-op (returning false)
// on the first page.
func (p *CursorPaginator) Retreat() bool {
	if p.currentPageIndex == 0 {
		return false
	}
	if n := len(p.cursorStack); n > 0 {
		p.currentCursor = p.cursorStack[n-1]
		p.cursorStack = p.cursorStack[:n-1]
	} else {
		p.currentCursor = ""
	}
	p.currentPageIndex--
	return true
}
