package circuit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Param is a gate parameter: either a number or an unevaluated symbolic
// expression such as "2.0*x[0]".
type Param struct {
	value   float64
	symbol  string
	numeric bool
}

// Number returns a numeric parameter.
func Number(v float64) Param { return Param{value: v, numeric: true} }

// Symbol returns a symbolic parameter.
func Symbol(s string) Param { return Param{symbol: s} }

// IsNumeric reports whether p holds a number.
func (p Param) IsNumeric() bool { return p.numeric }

// Value returns the numeric value. It is zero for symbolic parameters.
func (p Param) Value() float64 { return p.value }

// Symbol returns the symbolic text. It is empty for numeric parameters.
func (p Param) Symbol() string { return p.symbol }

// String returns the raw representation: the shortest decimal form for
// numbers, the expression text for symbols.
func (p Param) String() string {
	if p.numeric {
		return strconv.FormatFloat(p.value, 'g', -1, 64)
	}
	return p.symbol
}

// MarshalJSON encodes numbers as JSON numbers and symbols as JSON strings.
func (p Param) MarshalJSON() ([]byte, error) {
	if p.numeric {
		return json.Marshal(p.value)
	}
	return json.Marshal(p.symbol)
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty parameter")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Symbol(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parameter must be a number or string: %s", data)
	}
	*p = Number(v)
	return nil
}
