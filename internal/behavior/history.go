package behavior

// LabelHistory maintains a sliding window of recent raw Attention labels
// for majority-vote debouncing. Single-frame flicker from keypoint jitter
// is absorbed by voting over the trailing window.
type LabelHistory struct {
	labels   []Attention
	capacity int
	head     int // next write position
	size     int // current number of labels stored
}

// NewLabelHistory creates a history buffer with the specified window size.
func NewLabelHistory(capacity int) *LabelHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &LabelHistory{
		labels:   make([]Attention, capacity),
		capacity: capacity,
	}
}

// Add stores a new raw label, overwriting the oldest if at capacity.
func (lh *LabelHistory) Add(label Attention) {
	lh.labels[lh.head] = label
	lh.head = (lh.head + 1) % lh.capacity
	if lh.size < lh.capacity {
		lh.size++
	}
}

// Size returns the current number of labels in the window.
func (lh *LabelHistory) Size() int { return lh.size }

// Majority returns the most frequent label in the window. Ties resolve to
// the most recently added label among the tied candidates, so a fresh
// state change wins once it has pulled level with the old one. Returns
// AttentionUnknown on an empty window.
func (lh *LabelHistory) Majority() Attention {
	if lh.size == 0 {
		return AttentionUnknown
	}

	counts := make(map[Attention]int, lh.size)
	lastSeen := make(map[Attention]int, lh.size)
	for i := 0; i < lh.size; i++ {
		// Walk from oldest to newest so lastSeen reflects recency.
		idx := (lh.head - lh.size + i + lh.capacity) % lh.capacity
		label := lh.labels[idx]
		counts[label]++
		lastSeen[label] = i
	}

	best := AttentionUnknown
	bestCount := -1
	bestSeen := -1
	for label, n := range counts {
		if n > bestCount || (n == bestCount && lastSeen[label] > bestSeen) {
			best = label
			bestCount = n
			bestSeen = lastSeen[label]
		}
	}
	return best
}

// Clear empties the window. Called when a classifier is reset for a new video.
func (lh *LabelHistory) Clear() {
	for i := range lh.labels {
		lh.labels[i] = ""
	}
	lh.head = 0
	lh.size = 0
}
