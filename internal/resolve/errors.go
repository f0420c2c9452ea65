package resolve

import "fmt"

// InterfaceError is returned when a specification or annotation row
// does not provide what resolution requires: a missing field, an
// unrecognized separator, or an unrecognized strand.
type InterfaceError struct {
	Message string
}

func (e *InterfaceError) Error() string {
	return e.Message
}

// NoFeatureError is returned when a specification asks for a feature
// index beyond the number of features the row actually has.
type NoFeatureError struct {
	Kind   string
	Number int
	Length int
}

func (e *NoFeatureError) Error() string {
	return fmt.Sprintf(
		"specification requires feature '%s'[%d], but row specifies only %d '%s'(s)",
		e.Kind, e.Number, e.Length, e.Kind)
}
