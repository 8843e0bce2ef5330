package cpu

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	stateEntry   = "cpu_state.json"
	memoryEntry  = "memory.bin"
	displayEntry = "display.bin"
)

// humanReadableState is the JSON part of a save state. Memory and display go
// into their own binary entries.
type humanReadableState struct {
	V          [16]uint8 `json:"v"`
	I          uint16    `json:"i"`
	PC         uint16    `json:"pc"`
	Stack      []uint16  `json:"stack"`
	Delay      uint8     `json:"delay"`
	Sound      uint8     `json:"sound"`
	Keys       [16]bool  `json:"keys"`
	LatchedKey int       `json:"latched_key"`
	Steps      uint64    `json:"steps"`
	Width      int       `json:"display_width,omitempty"`
	Height     int       `json:"display_height,omitempty"`
}

// HibernateToBytes serialises the CPU, and the surface when it is not nil,
// into an in-memory ZIP archive.
func (c *CPU) HibernateToBytes(s *Surface) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	st := c.State()
	state := humanReadableState{
		V:          st.V,
		I:          st.I,
		PC:         st.PC,
		Stack:      st.Stack,
		Delay:      st.Delay,
		Sound:      st.Sound,
		Keys:       st.Keys,
		LatchedKey: st.LatchedKey,
		Steps:      st.Steps,
	}
	if s != nil {
		state.Width, state.Height = s.Width(), s.Height()
	}

	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal cpu_state")
	}
	if err := writeZipEntry(zw, stateEntry, jsonData); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, memoryEntry, st.Memory); err != nil {
		return nil, err
	}
	if s != nil {
		if err := writeZipEntry(zw, displayEntry, s.Pixels()); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "close zip")
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes applies an archive produced by HibernateToBytes. The CPU
// is only modified once the whole archive has been read and validated. A
// nil surface ignores the display entry.
func (c *CPU) RestoreFromBytes(data []byte, s *Surface) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Wrap(err, "open zip")
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, stateEntry)
	if err != nil {
		return err
	}
	var state humanReadableState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return errors.Wrap(err, "unmarshal cpu_state")
	}

	mem, err := readZipEntry(fileMap, memoryEntry)
	if err != nil {
		return err
	}

	var pixels []uint8
	if s != nil {
		if pixels, err = readZipEntry(fileMap, displayEntry); err != nil {
			return err
		}
		if state.Width != s.Width() || state.Height != s.Height() {
			return errors.Errorf("saved display is %dx%d, surface is %dx%d",
				state.Width, state.Height, s.Width(), s.Height())
		}
		if len(pixels) != s.Width()*s.Height() {
			return errors.Errorf("display entry is %d bytes, want %d", len(pixels), s.Width()*s.Height())
		}
	}

	err = c.SetState(State{
		V:          state.V,
		I:          state.I,
		PC:         state.PC,
		Stack:      state.Stack,
		Delay:      state.Delay,
		Sound:      state.Sound,
		Keys:       state.Keys,
		LatchedKey: state.LatchedKey,
		Steps:      state.Steps,
		Memory:     mem,
	})
	if err != nil {
		return err
	}
	if s != nil {
		if err := s.SetPixels(pixels); err != nil {
			return err
		}
		s.Refresh()
	}
	return nil
}

// HibernateToFile writes the hibernation archive to path.
func (c *CPU) HibernateToFile(path string, s *Surface) error {
	data, err := c.HibernateToBytes(s)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write state")
}

// RestoreFromFile reads a hibernation archive from path and restores it.
func (c *CPU) RestoreFromFile(path string, s *Surface) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read state")
	}
	return c.RestoreFromBytes(data, s)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create zip entry %q", name)
	}
	_, err = w.Write(data)
	return errors.Wrapf(err, "write zip entry %q", name)
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, errors.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open zip entry %q", name)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	return data, errors.Wrapf(err, "read zip entry %q", name)
}
