// Package column implements the columnar data model the execution engine
// operates over: typed Values, validity-bitmap-backed Columns, Schemas,
// RecordBatches and Tables. The file-format readers, transport and cloud
// storage this model could eventually sit behind are out of scope — only
// the in-memory representation itself, and the handful of operations the
// physical operators need (slice, take, filter-by-mask, repeat, append) are built
// here.
package column

import "fmt"

// DataType is the closed set of logical types a Value or Column can carry.
type DataType int

const (
	Invalid DataType = iota
	Null
	Bool
	Int64
	Float64
	String
	Timestamp
	Date
)

func (t DataType) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int64:
		return "i64"
	case Float64:
		return "f64"
	case String:
		return "string"
	case Timestamp:
		return "timestamp"
	case Date:
		return "date"
	default:
		return "invalid"
	}
}

func (t DataType) IsNumeric() bool {
	return t == Int64 || t == Float64
}

// TimeUnit is the resolution of a Timestamp value, in increasing
// resolution order.
type TimeUnit int

const (
	UnitUnspecified TimeUnit = iota
	UnitDay
	UnitSecond
	UnitMillis
	UnitMicros
	UnitNanos
)

var timeUnitNames = map[TimeUnit]string{
	UnitDay:    "D",
	UnitSecond: "s",
	UnitMillis: "ms",
	UnitMicros: "us",
	UnitNanos:  "ns",
}

func (u TimeUnit) String() string {
	if s, ok := timeUnitNames[u]; ok {
		return s
	}
	return "?"
}

// ParseTimeUnit maps a unit suffix ("D","s","ms","us","ns") to a TimeUnit,
// returning ok=false for anything else.
func ParseTimeUnit(s string) (TimeUnit, bool) {
	for u, n := range timeUnitNames {
		if n == s {
			return u, true
		}
	}
	return UnitUnspecified, false
}

// Value is a tagged-union scalar: exactly one of the typed fields is
// meaningful, selected by Type, unless Valid is false in which case the
// value is SQL NULL regardless of Type.
type Value struct {
	Type  DataType
	Valid bool
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Unit  TimeUnit
}

func NullValue() Value { return Value{Type: Null, Valid: false} }

func BoolValue(b bool) Value { return Value{Type: Bool, Valid: true, Bool: b} }

func IntValue(i int64) Value { return Value{Type: Int64, Valid: true, Int: i} }

func FloatValue(f float64) Value { return Value{Type: Float64, Valid: true, Float: f} }

func StringValue(s string) Value { return Value{Type: String, Valid: true, Str: s} }

func TimestampValue(i int64, unit TimeUnit) Value {
	return Value{Type: Timestamp, Valid: true, Int: i, Unit: unit}
}

func DateValue(days int64) Value { return Value{Type: Date, Valid: true, Int: days} }

// AsFloat64 returns the numeric interpretation of the value, for kernels
// that operate uniformly over numeric types.
func (v Value) AsFloat64() (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	switch v.Type {
	case Int64, Timestamp, Date:
		return float64(v.Int), true
	case Float64:
		return v.Float, true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	if !v.Valid {
		return "NULL"
	}
	switch v.Type {
	case Bool:
		return fmt.Sprintf("%v", v.Bool)
	case Int64:
		return fmt.Sprintf("%d", v.Int)
	case Float64:
		return fmt.Sprintf("%g", v.Float)
	case String:
		return v.Str
	case Timestamp:
		return fmt.Sprintf("%d%s", v.Int, v.Unit)
	case Date:
		return fmt.Sprintf("%dD", v.Int)
	default:
		return "NULL"
	}
}
