package stack

func New() *stack {
	return &stack{}
}

func (s *stack) IsEmpty() bool {
	return len(s.vs) == 0
}

func (s *stack) Pop() interface{} {
	if n := len(s.vs); n > 0 {
		v := s.vs[n-1]
		s.vs = s.vs[:n-1]
		return v
	}
	return nil
}

func (s *stack) Peek() interface{} {
	if n := len(s.vs); n > 0 {
		return s.vs[n-1]
	}
	return nil
}

func (s *stack) Push(v interface{}) {
	s.vs = append(s.vs, v)
}
