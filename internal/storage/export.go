package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Steps  int         `json:"steps"`
	Frames []TraceRow  `json:"frames"`
}

// ExportJSON writes a run and its trace as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, rows []TraceRow) error {
	data := ExportData{
		Run:    meta,
		Steps:  len(rows),
		Frames: rows,
	}
	if data.Frames == nil {
		data.Frames = []TraceRow{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, rows []TraceRow) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, rows)
}
