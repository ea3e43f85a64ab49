package store

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/seesaw/internal/beam"
)

// Record is the persisted session blob. NextWeight 0 means "draw a fresh one".
type Record struct {
	Placed     []beam.Item `json:"placed"`
	Logs       []string    `json:"logs"`
	NextWeight int         `json:"nextWeight"`
}

type rawRecord struct {
	Placed     []json.RawMessage `json:"placed"`
	Logs       []json.RawMessage `json:"logs"`
	NextWeight json.RawMessage   `json:"nextWeight"`
}

type rawItem struct {
	Kg json.RawMessage `json:"kg"`
	X  json.RawMessage `json:"x"`
}

// Decode parses a stored blob leniently and normalizes it. Anything that is
// not a JSON object yields ok == false; bad entries inside an object are
// dropped one by one.
func Decode(data []byte, p beam.Params) (rec Record, ok bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, false
	}

	var raw rawRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		// a field of the wrong shape (e.g. "placed": 3) should not discard
		// the rest of the object
		var ok bool
		if raw, ok = decodeFieldwise(trimmed); !ok {
			return Record{}, false
		}
	}

	for _, msg := range raw.Placed {
		var ri rawItem
		if err := json.Unmarshal(msg, &ri); err != nil {
			continue
		}
		kg, x := number(ri.Kg), number(ri.X)
		if it, ok := validItem(kg, x, p); ok {
			rec.Placed = append(rec.Placed, it)
		}
	}

	for _, msg := range raw.Logs {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			continue
		}
		rec.Logs = append(rec.Logs, s)
	}
	rec.Logs = capLogs(rec.Logs, p.LogLimit)

	if nw := number(raw.NextWeight); isWhole(nw) && p.ValidWeight(int(nw)) {
		rec.NextWeight = int(nw)
	}

	return rec, true
}

func decodeFieldwise(data []byte) (rawRecord, bool) {
	var fields map[string]json.RawMessage
	var raw rawRecord
	if err := json.Unmarshal(data, &fields); err != nil {
		return raw, false
	}
	_ = json.Unmarshal(fields["placed"], &raw.Placed)
	_ = json.Unmarshal(fields["logs"], &raw.Logs)
	raw.NextWeight = fields["nextWeight"]
	return raw, true
}

// Normalize applies the same validation as Decode to an in-memory record.
func Normalize(rec Record, p beam.Params) Record {
	out := Record{Logs: capLogs(append([]string(nil), rec.Logs...), p.LogLimit)}
	for _, it := range rec.Placed {
		if v, ok := validItem(float64(it.Weight), it.Offset, p); ok {
			out.Placed = append(out.Placed, v)
		}
	}
	if p.ValidWeight(rec.NextWeight) {
		out.NextWeight = rec.NextWeight
	}
	return out
}

func validItem(kg, x float64, p beam.Params) (beam.Item, bool) {
	if !isFinite(kg) || !isFinite(x) {
		return beam.Item{}, false
	}
	if !isWhole(kg) || !p.ValidWeight(int(kg)) {
		return beam.Item{}, false
	}
	w := int(kg)
	return beam.Item{Weight: w, Offset: beam.ClampOffset(x, w, p)}, true
}

func capLogs(logs []string, limit int) []string {
	if limit >= 0 && len(logs) > limit {
		return logs[:limit]
	}
	return logs
}

// number accepts JSON numbers and numeric strings; everything else is NaN.
func number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return math.NaN()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isWhole(f float64) bool {
	return isFinite(f) && f == math.Trunc(f)
}
