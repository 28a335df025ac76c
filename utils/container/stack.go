package container

// Stack 后进先出栈
type Stack[T any] struct {
	data []T
}

// NewStack 创建栈
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{data: make([]T, 0)}
}

func (s *Stack[T]) Len() int {
	return len(s.data)
}

func (s *Stack[T]) Push(v T) {
	s.data = append(s.data, v)
}

// Pop 弹出栈顶元素，栈为空时panic
func (s *Stack[T]) Pop() T {
	n := len(s.data)
	if n == 0 {
		panic("pop from empty stack")
	}
	v := s.data[n-1]
	var zero T
	s.data[n-1] = zero
	s.data = s.data[:n-1]
	return v
}
