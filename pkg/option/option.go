package option

import (
	"strconv"
	"strings"
)

type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeBool   Type = "bool"
)

func (t Type) Valid() bool {
	switch t {
	case TypeString, TypeInt, TypeBool:
		return true
	}

	return false
}

const (
	GeneratePassword = "password"
)

// Definition declares a single option of a service.
// Key is the name used inside the backing (INI key or command line flag).
type Definition struct {
	Name       string  `yaml:"name"`
	Key        string  `yaml:"key"`
	Backing    string  `yaml:"backing"`
	Type       Type    `yaml:"type"`
	Default    *string `yaml:"default,omitempty"`
	Required   bool    `yaml:"required,omitempty"`
	Generate   string  `yaml:"generate,omitempty"`
	TrueValue  string  `yaml:"true-value,omitempty"`
	FalseValue string  `yaml:"false-value,omitempty"`
	Help       string  `yaml:"help,omitempty"`
}

// DefaultValue returns the typed default, or an unset value when the definition has none.
func (d Definition) DefaultValue() (Value, error) {
	if d.Default == nil {
		return Unset(d.Type), nil
	}

	return d.Parse(*d.Default)
}

// Parse converts raw backing text into a typed value.
func (d Definition) Parse(raw string) (Value, error) {
	switch d.Type {
	case TypeString:
		return String(raw), nil
	case TypeInt:
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Unset(d.Type), NewFormatError(d.Name, d.Type, raw)
		}

		return Int(i), nil
	case TypeBool:
		b, ok := d.parseBool(raw)
		if !ok {
			return Unset(d.Type), NewFormatError(d.Name, d.Type, raw)
		}

		return Bool(b), nil
	}

	return Unset(d.Type), NewFormatError(d.Name, d.Type, raw)
}

func (d Definition) parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)

	if d.TrueValue != "" && raw == d.TrueValue {
		return true, true
	}
	if d.FalseValue != "" && raw == d.FalseValue {
		return false, true
	}

	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}

	return false, false
}

// Format renders a typed value as backing text.
func (d Definition) Format(v Value) string {
	if v.typ == TypeBool && v.set {
		if v.b {
			return firstNonEmpty(d.TrueValue, "true")
		}

		return firstNonEmpty(d.FalseValue, "false")
	}

	return v.String()
}

func firstNonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}

	return fallback
}
