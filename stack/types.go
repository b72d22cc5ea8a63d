package stack

type Stack interface {
	IsEmpty() bool
	Push(interface{})
	Pop() interface{}
	Peek() interface{}
}

type stack struct {
	vs []interface{}
}
