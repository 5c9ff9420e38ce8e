package domain

import "io"

// ErrorState holds the reason an entity failed validation. The zero value is clear.
type ErrorState struct {
	message string
	set     bool
}

func NewErrorState(message string) ErrorState {
	return ErrorState{message: message, set: true}
}

func (e *ErrorState) SetMessage(text string) {
	e.message = text
	e.set = true
}

func (e *ErrorState) Clear() {
	e.message = ""
	e.set = false
}

func (e ErrorState) IsClear() bool {
	return !e.set
}

func (e ErrorState) Message() string {
	return e.message
}

func (e ErrorState) String() string {
	return e.message
}

// WriteTo writes the message, or nothing when the state is clear.
func (e ErrorState) WriteTo(w io.Writer) (int64, error) {
	if e.IsClear() {
		return 0, nil
	}
	n, err := io.WriteString(w, e.message)
	return int64(n), err
}
