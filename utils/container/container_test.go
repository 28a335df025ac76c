package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/container"
)

func TestPriorityQueueOrder(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.HeapPush("c", 3)
	q.HeapPush("a", 1)
	q.HeapPush("b", 2)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "a", q.First())
	for _, want := range []string{"a", "b", "c"} {
		v, _ := q.HeapPop()
		assert.Equal(t, want, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestPriorityQueueStable(t *testing.T) {
	q := container.NewPriorityQueue[int]()
	for i := 0; i < 20; i++ {
		q.Push(i, float64(i%2))
	}
	q.Heapify()
	got := make([]int, 0, 20)
	for q.Len() > 0 {
		v, p := q.HeapPop()
		assert.Equal(t, float64(v%2), p)
		got = append(got, v)
	}
	assert.Equal(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, got)
}

func TestStack(t *testing.T) {
	s := container.NewStack[int]()
	s.Push(1)
	s.Push(2)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Pop())
	assert.Equal(t, 1, s.Pop())
	assert.Equal(t, 0, s.Len())
	assert.Panics(t, func() { s.Pop() })
}
