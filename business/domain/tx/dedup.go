package tx

// DedupWindow tracks already processed transaction ids in insertion order.
// It grows until Compact is called, which keeps only the most recent ids.
type DedupWindow struct {
	high  int
	low   int
	ids   map[string]struct{}
	order []string
}

func NewDedupWindow(high, low int) *DedupWindow {
	high = max(high, 0)
	low = min(max(low, 0), high)
	return &DedupWindow{
		high:  high,
		low:   low,
		ids:   make(map[string]struct{}, high),
		order: make([]string, 0, high),
	}
}

func (w *DedupWindow) Seen(id string) bool {
	_, ok := w.ids[id]
	return ok
}

// Record adds the id. Recording a known id does not change the recency order.
func (w *DedupWindow) Record(id string) {
	if _, ok := w.ids[id]; ok {
		return
	}
	w.ids[id] = struct{}{}
	w.order = append(w.order, id)
}

func (w *DedupWindow) Size() int {
	return len(w.ids)
}

// Compact trims the window to the low water mark once it exceeds the high water mark.
// Returns the number of evicted ids.
func (w *DedupWindow) Compact() int {
	if len(w.order) <= w.high {
		return 0
	}

	evicted := len(w.order) - w.low
	kept := make([]string, w.low, max(w.high, w.low))
	copy(kept, w.order[evicted:])

	ids := make(map[string]struct{}, w.high)
	for _, id := range kept {
		ids[id] = struct{}{}
	}

	w.order = kept
	w.ids = ids
	return evicted
}
