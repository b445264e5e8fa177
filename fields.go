package flume

// Fields represents an ordered collection of Field values that can be cloned.
// Order is preserved end to end: fields render in the order they were passed.
type Fields []Field

// Clone creates a deep copy of the Fields slice.
// This supports the pipz.Cloner contract used by Event.Clone.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	return append(Fields(nil), f...)
}
