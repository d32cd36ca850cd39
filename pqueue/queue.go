package pqueue

// Queue 通用二叉堆，比较函数由调用方提供。
// less(a, b) 为 true 时 a 优先出队。
type Queue[T any] struct {
	items []T
	less  func(a, b T) bool
}

// New 创建空堆；less 为 nil 时 panic（必须显式给出排序语义）。
func New[T any](less func(a, b T) bool) *Queue[T] {
	if less == nil {
		panic("pqueue: nil comparator")
	}
	return &Queue[T]{less: less}
}

func (q *Queue[T]) Len() int { return len(q.items) }

// Push 入队，O(log n)。
func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
	q.siftUp(len(q.items) - 1)
}

// Peek 返回堆顶；空堆时第二个返回值为 false。
func (q *Queue[T]) Peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// Pop 弹出堆顶，O(log n)。
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	n := len(q.items)
	if n == 0 {
		return zero, false
	}
	top := q.items[0]
	q.items[0] = q.items[n-1]
	q.items[n-1] = zero
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return top, true
}

// Replace 用 v 替换堆顶并返回旧值；比 Pop+Push 少一次 sift。
// 空堆时等价于 Push。
func (q *Queue[T]) Replace(v T) (T, bool) {
	var zero T
	if len(q.items) == 0 {
		q.Push(v)
		return zero, false
	}
	old := q.items[0]
	q.items[0] = v
	q.siftDown(0)
	return old, true
}

func (q *Queue[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(q.items[i], q.items[parent]) {
			return
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *Queue[T]) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		best := left
		if right := left + 1; right < n && q.less(q.items[right], q.items[left]) {
			best = right
		}
		if !q.less(q.items[best], q.items[i]) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
