package column

import "fmt"

// Field describes one named, typed schema slot.
type Field struct {
	Name string
	Type DataType
	Unit TimeUnit
}

// Schema is the ordered list of fields shared by every batch of a Table.
type Schema struct {
	Fields []Field
}

// NewSchema builds a Schema, rewriting empty field names to unnamed_{k}
// as required on ingestion.
func NewSchema(fields ...Field) Schema {
	out := make([]Field, len(fields))
	unnamed := 0
	for i, f := range fields {
		if f.Name == "" {
			f.Name = fmt.Sprintf("unnamed_%d", unnamed)
			unnamed++
		}
		out[i] = f
	}
	return Schema{Fields: out}
}

// Names returns the ordered field names.
func (s Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// FieldIndex returns the index of the named field, or -1.
func (s Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// HasField reports whether the schema declares a field with this name.
func (s Schema) HasField(name string) bool { return s.FieldIndex(name) >= 0 }

// Field returns the field descriptor by name.
func (s Schema) Field(name string) (Field, bool) {
	i := s.FieldIndex(name)
	if i < 0 {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Select returns a new Schema with only the named fields, in the order
// requested.
func (s Schema) Select(names []string) Schema {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		if f, ok := s.Field(n); ok {
			fields = append(fields, f)
		}
	}
	return Schema{Fields: fields}
}
