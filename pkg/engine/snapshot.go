package engine

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// snapshotState is the JSON part of a snapshot archive.
type snapshotState struct {
	TapeSize int    `json:"tape_size"`
	Pointer  int    `json:"pointer"`
	Steps    uint64 `json:"steps"`
}

// maxStateSize bounds how much of engine_state.json is read.
const maxStateSize = 64 << 10

// SnapshotToBytes packs the tape and run counters into a ZIP archive:
//
//	engine_state.json  pointer, tape size, steps
//	tape.bin           raw cells
//
// The loaded program and its halt state are not part of a snapshot.
func (e *Engine) SnapshotToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	state := snapshotState{
		TapeSize: e.Tape.Size(),
		Pointer:  e.Tape.Pointer,
		Steps:    e.Steps,
	}

	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal engine_state: %w", err)
	}
	if err := writeZipEntry(zw, "engine_state.json", jsonData); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "tape.bin", e.Tape.Cells); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes replaces the tape and pointer with those stored in a
// snapshot archive and restores the step counter. The loaded program, if
// any, is dropped: the engine is left halted with nothing to run until the
// next Load.
func (e *Engine) RestoreFromBytes(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ErrSnapshot.Wrap(err, "open zip")
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "engine_state.json", maxStateSize)
	if err != nil {
		return err
	}
	var state snapshotState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return ErrSnapshot.Wrap(err, "unmarshal engine_state")
	}
	if state.TapeSize < 1 {
		return ErrSnapshot.New("tape size %d in engine_state", state.TapeSize)
	}
	if state.Pointer < 0 || state.Pointer >= state.TapeSize {
		return ErrSnapshot.New("pointer %d outside tape of %d cells", state.Pointer, state.TapeSize)
	}

	// One byte past the declared size is enough to detect a longer entry.
	cells, err := readZipEntry(fileMap, "tape.bin", int64(state.TapeSize)+1)
	if err != nil {
		return err
	}
	if len(cells) != state.TapeSize {
		return ErrSnapshot.New("tape.bin holds %d cells or more, engine_state says %d", len(cells), state.TapeSize)
	}

	e.Reset()
	e.Tape = &Tape{Cells: cells, Pointer: state.Pointer}
	e.Steps = state.Steps
	return nil
}

// SnapshotToFile writes the snapshot archive to path.
func (e *Engine) SnapshotToFile(path string) error {
	data, err := e.SnapshotToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RestoreFromFile reads a snapshot archive from path and applies it.
func (e *Engine) RestoreFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.RestoreFromBytes(data)
}

// ── helpers ────────────────────────────────────────────────────────────────

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

// readZipEntry reads at most limit bytes of the named entry.
func readZipEntry(fileMap map[string]*zip.File, name string, limit int64) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, ErrSnapshot.New("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, ErrSnapshot.Wrap(err, "open zip entry %q", name)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return nil, ErrSnapshot.Wrap(err, "read zip entry %q", name)
	}
	return data, nil
}
