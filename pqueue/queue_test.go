package pqueue

import (
	"math/rand"
	"sort"
	"testing"
)

func TestPushPopOrdering(t *testing.T) {
	q := New(func(a, b int) bool { return a > b }) // max-heap
	input := []int{5, 1, 9, 3, 9, 2}
	for _, v := range input {
		q.Push(v)
	}
	want := append([]int(nil), input...)
	sort.Sort(sort.Reverse(sort.IntSlice(want)))
	for _, exp := range want {
		got, ok := q.Pop()
		if !ok || got != exp {
			t.Fatalf("expected %d got %d (ok=%v)", exp, got, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop on empty queue should report !ok")
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New(func(a, b float64) bool { return a < b })
	q.Push(2.5)
	q.Push(1.5)
	if v, ok := q.Peek(); !ok || v != 1.5 {
		t.Fatalf("peek got %v ok=%v", v, ok)
	}
	if q.Len() != 2 {
		t.Fatalf("peek must not remove, len=%d", q.Len())
	}
}

func TestReplace(t *testing.T) {
	q := New(func(a, b int) bool { return a < b })
	for _, v := range []int{4, 7, 2} {
		q.Push(v)
	}
	old, ok := q.Replace(10)
	if !ok || old != 2 {
		t.Fatalf("replace returned %d ok=%v", old, ok)
	}
	if v, _ := q.Peek(); v != 4 {
		t.Fatalf("expected new top 4 got %d", v)
	}
	// 空堆 Replace 退化为 Push
	empty := New(func(a, b int) bool { return a < b })
	if _, ok := empty.Replace(1); ok {
		t.Fatal("replace on empty should report !ok")
	}
	if v, _ := empty.Peek(); v != 1 {
		t.Fatalf("expected 1 got %d", v)
	}
}

func TestRandomizedAgainstSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := New(func(a, b int) bool { return a < b })
	vals := make([]int, 500)
	for i := range vals {
		vals[i] = rng.Intn(1000)
		q.Push(vals[i])
	}
	sort.Ints(vals)
	for i, exp := range vals {
		got, _ := q.Pop()
		if got != exp {
			t.Fatalf("index %d: expected %d got %d", i, exp, got)
		}
	}
}
