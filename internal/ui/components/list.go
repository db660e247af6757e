package components

// List tracks a cursor and a scroll window over Len rows. It holds no items
// so callers can keep rows typed.
type List struct {
	Len      int
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates an empty list with the given page size, at least one.
func NewList(pageSize int) List {
	if pageSize <= 0 {
		pageSize = 1
	}
	return List{PageSize: pageSize}
}

// Reset sets the row count and moves the cursor to the top.
func (l *List) Reset(n int) {
	l.Len = max(n, 0)
	l.Cursor = 0
	l.Offset = 0
}

// Resize sets the row count and keeps the cursor in range.
func (l *List) Resize(n int) {
	l.Len = max(n, 0)
	if l.Cursor >= l.Len {
		l.Cursor = max(l.Len-1, 0)
	}
	l.clampOffset()
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < l.Len-1 {
		l.Cursor++
		l.clampOffset()
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		l.clampOffset()
	}
}

// Window returns the [start, end) range of visible rows.
func (l *List) Window() (int, int) {
	if l.Len == 0 {
		return 0, 0
	}
	end := min(l.Offset+l.PageSize, l.Len)
	return l.Offset, end
}

// Selected returns the cursor index, or -1 when empty.
func (l *List) Selected() int {
	if l.Len == 0 {
		return -1
	}
	return l.Cursor
}

// IsSelected returns true if the given absolute index is the cursor.
func (l *List) IsSelected(absIdx int) bool {
	return l.Len > 0 && absIdx == l.Cursor
}

func (l *List) clampOffset() {
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	if maxOffset := max(l.Len-l.PageSize, 0); l.Offset > maxOffset {
		l.Offset = maxOffset
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}
