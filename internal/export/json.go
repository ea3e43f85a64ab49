package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/seesaw/internal/storage"
)

type frameJSON struct {
	T      float64 `json:"t"`
	Angle  float64 `json:"angle"`
	Target float64 `json:"target"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

type runJSON struct {
	*storage.RunMetadata
	Frames []frameJSON `json:"frames"`
}

// WriteJSON writes a run's metadata and full trace as one JSON document.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, tr *storage.Trace) error {
	out := runJSON{RunMetadata: meta}
	if tr != nil {
		out.Frames = make([]frameJSON, len(tr.Times))
		for i, t := range tr.Times {
			out.Frames[i] = frameJSON{
				T:      t,
				Angle:  at(tr.Angles, i),
				Target: at(tr.Targets, i),
				Left:   at(tr.Left, i),
				Right:  at(tr.Right, i),
			}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func ExportJSON(path string, meta *storage.RunMetadata, tr *storage.Trace) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, meta, tr)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, meta, tr)
}

func at(vs []float64, i int) float64 {
	if i < len(vs) {
		return vs[i]
	}
	return 0
}
