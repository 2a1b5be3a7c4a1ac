package ecg

// Floats is a float64 slice that survives JSON round-trips in the presence
// of NaN: missing values encode as null and decode back to NaN. Plain
// encoding/json rejects NaN outright, and missing feature values (declared
// LF/HF ratio gaps, short-window HRV statistics) are ordinary data here.

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

type Floats []float64

func (f Floats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (f *Floats) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values := make([]float64, len(raw))
	for i, v := range raw {
		if v == nil {
			values[i] = math.NaN()
		} else {
			values[i] = *v
		}
	}
	*f = values
	return nil
}
