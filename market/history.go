package market

// DefaultCapacity 默认保留最近 200 个价格。
const DefaultCapacity = 200

// History 固定容量的价格环形缓冲。写满后覆盖最旧数据。
type History struct {
	buf  []float64
	head int // 下一个写入位置
	size int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{buf: make([]float64, capacity)}
}

// Push 追加一个价格。
func (h *History) Push(p float64) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

func (h *History) Len() int { return h.size }

// Latest 返回最近一个价格；无数据时第二个返回值为 false。
func (h *History) Latest() (float64, bool) {
	if h.size == 0 {
		return 0, false
	}
	idx := (h.head - 1 + len(h.buf)) % len(h.buf)
	return h.buf[idx], true
}

// Last 按时间先后返回最近 n 个价格；n 超过可用数量时返回全部。
func (h *History) Last(n int) []float64 {
	if n > h.size {
		n = h.size
	}
	out := make([]float64, n)
	start := (h.head - n + len(h.buf)) % len(h.buf)
	for i := 0; i < n; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}
