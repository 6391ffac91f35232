package column

// Column is a columnar array: a sequence of values of one logical type,
// plus a parallel validity bitmap. Exactly one of the typed slices is
// populated, selected by Type; the others are nil. Length, Type and the
// Valid bitmap's length are kept in lockstep by every constructor and
// transform in this file.
type Column struct {
	Type   DataType
	Unit   TimeUnit // meaningful only when Type == Timestamp
	Bools  []bool
	Ints   []int64
	Floats []float64
	Strs   []string
	Valid  Bitmap
}

func NewBoolColumn(values []bool, valid []bool) Column {
	return Column{Type: Bool, Bools: values, Valid: NewBitmapFromBools(valid)}
}

func NewInt64Column(values []int64, valid []bool) Column {
	return Column{Type: Int64, Ints: values, Valid: NewBitmapFromBools(valid)}
}

func NewFloat64Column(values []float64, valid []bool) Column {
	return Column{Type: Float64, Floats: values, Valid: NewBitmapFromBools(valid)}
}

func NewStringColumn(values []string, valid []bool) Column {
	return Column{Type: String, Strs: values, Valid: NewBitmapFromBools(valid)}
}

func NewTimestampColumn(values []int64, unit TimeUnit, valid []bool) Column {
	return Column{Type: Timestamp, Unit: unit, Ints: values, Valid: NewBitmapFromBools(valid)}
}

func NewDateColumn(values []int64, valid []bool) Column {
	return Column{Type: Date, Ints: values, Valid: NewBitmapFromBools(valid)}
}

// NewNullColumn returns an all-null column of n rows typed as Null (the
// caller's consumer should be prepared to coerce a Null column to
// whatever type it expects).
func NewNullColumn(n int) Column {
	return Column{Type: Null, Valid: NewBitmapFromBools(allFalse(n))}
}

func allFalse(n int) []bool {
	out := make([]bool, n)
	return out
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	switch c.Type {
	case Bool:
		return len(c.Bools)
	case Int64, Timestamp, Date:
		return len(c.Ints)
	case Float64:
		return len(c.Floats)
	case String:
		return len(c.Strs)
	default:
		return c.Valid.Len()
	}
}

func (c Column) IsValid(i int) bool { return c.Valid.IsValid(i) }

// Get returns the scalar Value at row i.
func (c Column) Get(i int) Value {
	if !c.IsValid(i) {
		return NullValue()
	}
	switch c.Type {
	case Bool:
		return BoolValue(c.Bools[i])
	case Int64:
		return IntValue(c.Ints[i])
	case Float64:
		return FloatValue(c.Floats[i])
	case String:
		return StringValue(c.Strs[i])
	case Timestamp:
		return TimestampValue(c.Ints[i], c.Unit)
	case Date:
		return DateValue(c.Ints[i])
	default:
		return NullValue()
	}
}

// Slice returns a view over rows [offset, offset+length). Backing slices
// are re-sliced, not copied, per the "borrowing read-only views" license
// the execution model grants operators.
func (c Column) Slice(offset, length int) Column {
	out := Column{Type: c.Type, Unit: c.Unit, Valid: c.Valid.Slice(offset, length)}
	switch c.Type {
	case Bool:
		out.Bools = c.Bools[offset : offset+length]
	case Int64, Timestamp, Date:
		out.Ints = c.Ints[offset : offset+length]
	case Float64:
		out.Floats = c.Floats[offset : offset+length]
	case String:
		out.Strs = c.Strs[offset : offset+length]
	}
	return out
}

// Take gathers rows at the given indices into a new column.
func (c Column) Take(indices []int) Column {
	out := Column{Type: c.Type, Unit: c.Unit, Valid: c.Valid.Take(indices)}
	switch c.Type {
	case Bool:
		vs := make([]bool, len(indices))
		for i, idx := range indices {
			vs[i] = c.Bools[idx]
		}
		out.Bools = vs
	case Int64, Timestamp, Date:
		vs := make([]int64, len(indices))
		for i, idx := range indices {
			vs[i] = c.Ints[idx]
		}
		out.Ints = vs
	case Float64:
		vs := make([]float64, len(indices))
		for i, idx := range indices {
			vs[i] = c.Floats[idx]
		}
		out.Floats = vs
	case String:
		vs := make([]string, len(indices))
		for i, idx := range indices {
			vs[i] = c.Strs[idx]
		}
		out.Strs = vs
	}
	return out
}

// FilterMask keeps rows where mask[i] is true. Null mask entries must
// already have been folded to false by the caller (the Filter operator's
// emit-null semantics).
func (c Column) FilterMask(mask []bool) Column {
	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return c.Take(indices)
}

// Repeat broadcasts a length-1 column to n rows, used when a scalar
// literal or aggregate-of-nothing result must line up with sibling
// columns in a Project output.
func (c Column) Repeat(n int) Column {
	if c.Len() == n {
		return c
	}
	indices := make([]int, n)
	return c.Take(indices)
}

// Append concatenates two columns of identical type (used to build a
// batch-spanning buffer inside Sort before the final stable sort).
func Append(cols ...Column) Column {
	if len(cols) == 0 {
		return Column{Type: Null}
	}
	typ := cols[0].Type
	out := Column{Type: typ, Unit: cols[0].Unit}
	var validBits []bool
	switch typ {
	case Bool:
		for _, c := range cols {
			out.Bools = append(out.Bools, c.Bools...)
		}
	case Int64, Timestamp, Date:
		for _, c := range cols {
			out.Ints = append(out.Ints, c.Ints...)
		}
	case Float64:
		for _, c := range cols {
			out.Floats = append(out.Floats, c.Floats...)
		}
	case String:
		for _, c := range cols {
			out.Strs = append(out.Strs, c.Strs...)
		}
	}
	anyNull := false
	for _, c := range cols {
		if c.Valid.HasNulls() {
			anyNull = true
		}
	}
	if anyNull {
		for _, c := range cols {
			validBits = append(validBits, c.Valid.ToBoolSlice()...)
		}
		out.Valid = NewBitmapFromBools(validBits)
	} else {
		n := 0
		for _, c := range cols {
			n += c.Len()
		}
		out.Valid = NewValidBitmap(n)
	}
	return out
}

// FromValues packs a slice of scalar Values into a single typed Column.
// The column's type is that of the first non-null value; an all-null
// slice produces a Null-typed column. Used wherever a value-at-a-time
// result (aggregate finalization, group keys, dict-literal construction)
// needs to be re-materialized as a columnar buffer.
func FromValues(values []Value) Column {
	typ := Null
	for _, v := range values {
		if v.Valid {
			typ = v.Type
			break
		}
	}
	valid := make([]bool, len(values))
	switch typ {
	case Bool:
		out := make([]bool, len(values))
		for i, v := range values {
			valid[i] = v.Valid
			out[i] = v.Bool
		}
		return Column{Type: Bool, Bools: out, Valid: NewBitmapFromBools(valid)}
	case Int64:
		out := make([]int64, len(values))
		for i, v := range values {
			valid[i] = v.Valid
			out[i] = v.Int
		}
		return Column{Type: Int64, Ints: out, Valid: NewBitmapFromBools(valid)}
	case Float64:
		out := make([]float64, len(values))
		for i, v := range values {
			valid[i] = v.Valid
			out[i] = v.Float
		}
		return Column{Type: Float64, Floats: out, Valid: NewBitmapFromBools(valid)}
	case String:
		out := make([]string, len(values))
		for i, v := range values {
			valid[i] = v.Valid
			out[i] = v.Str
		}
		return Column{Type: String, Strs: out, Valid: NewBitmapFromBools(valid)}
	case Timestamp:
		out := make([]int64, len(values))
		unit := UnitSecond
		for i, v := range values {
			valid[i] = v.Valid
			out[i] = v.Int
			if v.Valid {
				unit = v.Unit
			}
		}
		return Column{Type: Timestamp, Unit: unit, Ints: out, Valid: NewBitmapFromBools(valid)}
	case Date:
		out := make([]int64, len(values))
		for i, v := range values {
			valid[i] = v.Valid
			out[i] = v.Int
		}
		return Column{Type: Date, Ints: out, Valid: NewBitmapFromBools(valid)}
	default:
		return NewNullColumn(len(values))
	}
}
