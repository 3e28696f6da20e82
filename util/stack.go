package util

// Stack is a LIFO of T. The zero value is ready to use.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top item. An empty stack yields the zero value and ok=false.
func (s *Stack[T]) Pop() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	last := len(s.items) - 1
	item = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return item, true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
