package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/dronesim/internal/scene"
)

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	st := New(tmpDir)
	st.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return st, tmpDir
}

func TestStoreSaveLoad(t *testing.T) {
	st, _ := newTestStore(t)

	trace := scene.Sequence(3, scene.FillOptions())
	runID, err := st.Save(RunMetadata{Variant: "fill", Frames: 3, FPS: 30, Fill: true, Title: "Drone avec payload"}, Rows(trace))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "fill_") {
		t.Errorf("expected run id prefixed with the variant, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID || meta.Variant != "fill" || meta.Frames != 3 || !meta.Fill {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Title != "Drone avec payload" {
		t.Errorf("expected title to round trip, got %q", meta.Title)
	}

	rows, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Frame != 0 || rows[0].DroneY != 3 || rows[0].Accel != -4 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[2].Frame != 2 || rows[2].T != 0.04 {
		t.Errorf("unexpected last row %+v", rows[2])
	}
	if rows[0].Fill != 0.5 {
		t.Errorf("expected fill 0.5 at frame 0, got %f", rows[0].Fill)
	}
}

func TestStoreList(t *testing.T) {
	st, _ := newTestStore(t)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(RunMetadata{Variant: "simple"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Variant: "fill"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected runs oldest first, got %s then %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list for a missing dir, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st, tmpDir := newTestStore(t)

	runID, err := st.Save(RunMetadata{Variant: "simple"}, Rows(scene.Sequence(1, scene.SimpleOptions())))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		t.Fatalf("frames.csv not created: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and 1 row, got %d lines", len(lines))
	}
	if lines[0] != "frame,t,drone_y,accel,payload_y,fill,accel_len,payload_len" {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestLoadTraceSkipsMalformedRows(t *testing.T) {
	st, tmpDir := newTestStore(t)

	runDir := filepath.Join(tmpDir, "manual")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := strings.Join([]string{
		"frame,t,drone_y,accel,payload_y,fill,accel_len,payload_len",
		"0,0,3,-4,1.5,0,-0.8,-0.5",
		"x,0,3,-4,1.5,0,-0.8,-0.5",
		"1,0.02,bad,-4,1.5,0,-0.8,-0.5",
		"2,0.04",
	}, "\n")
	if err := os.WriteFile(filepath.Join(runDir, "frames.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := st.LoadTrace("manual")
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected only the valid row, got %d", len(rows))
	}
}

func TestExportJSON(t *testing.T) {
	meta := RunMetadata{ID: "simple_1", Variant: "simple", Frames: 2}
	rows := Rows(scene.Sequence(2, scene.SimpleOptions()))

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, rows); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output should be valid json: %v", err)
	}
	if got.Run.ID != "simple_1" || got.Steps != 2 || len(got.Frames) != 2 {
		t.Errorf("unexpected export %+v", got)
	}
	if got.Frames[1].PayloadLength != -0.5 {
		t.Errorf("expected payload length -0.5, got %f", got.Frames[1].PayloadLength)
	}

	buf.Reset()
	if err := ExportJSON(&buf, meta, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"frames": []`) {
		t.Errorf("nil rows should export as an empty list, got %s", buf.String())
	}
}

func TestColumn(t *testing.T) {
	rows := Rows(scene.Sequence(3, scene.FillOptions()))

	frames, err := Column(rows, "frame")
	if err != nil {
		t.Fatal(err)
	}
	if frames[2] != 2 {
		t.Errorf("expected frame 2, got %f", frames[2])
	}

	for _, name := range Columns() {
		col, err := Column(rows, name)
		if err != nil || len(col) != 3 {
			t.Errorf("column %s: got %d values, %v", name, len(col), err)
		}
	}

	if _, err := Column(rows, "energy"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}
