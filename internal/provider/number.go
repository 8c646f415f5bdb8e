package provider

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// looseFloat decodes a JSON number or numeric string. Anything else becomes NaN
// so that a bad field invalidates the record instead of the whole response.
type looseFloat struct {
	value float64
	set   bool
}

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	f.value, f.set = math.NaN(), false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	} else {
		s = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	f.value, f.set = v, true
	return nil
}

// Float returns the value, or NaN when absent or unparsable.
func (f looseFloat) Float() float64 {
	if !f.set {
		return math.NaN()
	}
	return f.value
}

// Or returns the value, or def when absent, unparsable or non-finite.
func (f looseFloat) Or(def float64) float64 {
	if !f.set || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
		return def
	}
	return f.value
}
