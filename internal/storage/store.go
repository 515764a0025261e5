package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dronesim/internal/scene"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrUnknownColumn = errors.New("storage: unknown trace column")

var traceHeader = []string{"frame", "t", "drone_y", "accel", "payload_y", "fill", "accel_len", "payload_len"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Variant     string    `json:"variant"`
	Timestamp   time.Time `json:"timestamp"`
	Frames      int       `json:"frames"`
	FPS         int       `json:"fps"`
	Fill        bool      `json:"fill"`
	Output      string    `json:"output"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	ElapsedMS   int64     `json:"elapsed_ms"`
}

// TraceRow is the scalar state of one frame.
type TraceRow struct {
	Frame         int     `json:"frame"`
	T             float64 `json:"t"`
	DroneY        float64 `json:"drone_y"`
	Accel         float64 `json:"accel"`
	PayloadY      float64 `json:"payload_y"`
	Fill          float64 `json:"fill"`
	AccelLength   float64 `json:"accel_len"`
	PayloadLength float64 `json:"payload_len"`
}

func RowFromScene(sc scene.Scene) TraceRow {
	return TraceRow{
		Frame:         sc.Frame,
		T:             sc.T,
		DroneY:        sc.Drone.Y,
		Accel:         sc.Accel,
		PayloadY:      sc.Payload.Y,
		Fill:          sc.Fill,
		AccelLength:   sc.AccelGlyph.Length,
		PayloadLength: sc.PayloadGlyph.Length,
	}
}

func Rows(trace []scene.Scene) []TraceRow {
	rows := make([]TraceRow, len(trace))
	for i, sc := range trace {
		rows[i] = RowFromScene(sc)
	}
	return rows
}

func (r TraceRow) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		strconv.Itoa(r.Frame),
		f(r.T), f(r.DroneY), f(r.Accel), f(r.PayloadY), f(r.Fill), f(r.AccelLength), f(r.PayloadLength),
	}
}

// Save records a run under a fresh id and returns it.
func (s *Store) Save(meta RunMetadata, rows []TraceRow) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", meta.Variant, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, rows); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []TraceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns all runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads a run's frames.csv. Malformed rows are skipped.
func (s *Store) LoadTrace(runID string) ([]TraceRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TraceRow{}, nil
	}

	rows := make([]TraceRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(traceHeader) {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, len(record)-1)
		ok := true
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		rows = append(rows, TraceRow{
			Frame:         frame,
			T:             vals[0],
			DroneY:        vals[1],
			Accel:         vals[2],
			PayloadY:      vals[3],
			Fill:          vals[4],
			AccelLength:   vals[5],
			PayloadLength: vals[6],
		})
	}
	return rows, nil
}

// Columns lists the trace fields by their CSV header name.
func Columns() []string {
	return append([]string(nil), traceHeader[1:]...)
}

// Column extracts one field of the trace by its CSV header name.
func Column(rows []TraceRow, name string) ([]float64, error) {
	var get func(TraceRow) float64
	switch name {
	case "frame":
		get = func(r TraceRow) float64 { return float64(r.Frame) }
	case "t":
		get = func(r TraceRow) float64 { return r.T }
	case "drone_y":
		get = func(r TraceRow) float64 { return r.DroneY }
	case "accel":
		get = func(r TraceRow) float64 { return r.Accel }
	case "payload_y":
		get = func(r TraceRow) float64 { return r.PayloadY }
	case "fill":
		get = func(r TraceRow) float64 { return r.Fill }
	case "accel_len":
		get = func(r TraceRow) float64 { return r.AccelLength }
	case "payload_len":
		get = func(r TraceRow) float64 { return r.PayloadLength }
	default:
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownColumn, name, Columns())
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = get(r)
	}
	return out, nil
}
