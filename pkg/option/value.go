package option

import "strconv"

// Value is a typed option value. The zero Value is an unset string.
type Value struct {
	typ Type
	set bool
	s   string
	i   int
	b   bool
}

func Unset(t Type) Value {
	return Value{typ: t}
}

func String(s string) Value {
	return Value{typ: TypeString, set: true, s: s}
}

func Int(i int) Value {
	return Value{typ: TypeInt, set: true, i: i}
}

func Bool(b bool) Value {
	return Value{typ: TypeBool, set: true, b: b}
}

func (v Value) Type() Type {
	if v.typ == "" {
		return TypeString
	}

	return v.typ
}

func (v Value) IsSet() bool {
	return v.set
}

func (v Value) Int() (int, bool) {
	return v.i, v.set && v.typ == TypeInt
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.set && v.typ == TypeBool
}

func (v Value) Str() (string, bool) {
	return v.s, v.set && v.Type() == TypeString
}

// Interface returns the underlying Go value, or nil when unset.
func (v Value) Interface() any {
	if !v.set {
		return nil
	}

	switch v.typ {
	case TypeInt:
		return v.i
	case TypeBool:
		return v.b
	}

	return v.s
}

// Equal reports whether both values hold the same typed content.
// Two unset values are equal; unset never equals a set value.
func (v Value) Equal(o Value) bool {
	if v.set != o.set {
		return false
	}
	if !v.set {
		return true
	}
	if v.Type() != o.Type() {
		return false
	}

	switch v.typ {
	case TypeInt:
		return v.i == o.i
	case TypeBool:
		return v.b == o.b
	}

	return v.s == o.s
}

func (v Value) String() string {
	if !v.set {
		return ""
	}

	switch v.typ {
	case TypeInt:
		return strconv.Itoa(v.i)
	case TypeBool:
		return strconv.FormatBool(v.b)
	}

	return v.s
}
