package monitor

// history is a bounded FIFO of the most recently stepped instructions
type history struct {
	items   []string
	maxSize int
}

func newHistory(maxSize int) *history {
	return &history{maxSize: maxSize}
}

// add appends item, dropping the oldest one when full
func (h *history) add(item string) {
	if h.maxSize <= 0 {
		return
	}
	if len(h.items) == h.maxSize {
		h.items = h.items[1:]
	}
	h.items = append(h.items, item)
}

// lines returns the items, oldest first
func (h *history) lines() []string {
	out := make([]string, len(h.items))
	copy(out, h.items)
	return out
}

func (h *history) clear() {
	h.items = nil
}
