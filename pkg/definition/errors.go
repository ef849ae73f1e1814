package definition

import "fmt"

type UnknownGameError struct {
	Name string
}

func NewUnknownGameError(name string) *UnknownGameError {
	return &UnknownGameError{Name: name}
}

func (e *UnknownGameError) Error() string {
	return fmt.Sprintf("unknown game '%s'", e.Name)
}
