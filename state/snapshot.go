package state

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// snapshotFields names the persisted values in file order.
var snapshotFields = [...]string{
	"background.r", "background.g", "background.b",
	"ui_visible",
	"camera.position.x", "camera.position.y", "camera.position.z",
	"camera.front.x", "camera.front.y", "camera.front.z",
}

// Save writes the snapshot to path, one value per line, creating the parent
// directory if needed.
func (s *ProgramState) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := s.WriteSnapshot(&buf); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// WriteSnapshot writes the ten snapshot values: background colour, panel
// flag (0/1), camera position and camera front.
func (s *ProgramState) WriteSnapshot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	f := func(v float32) {
		bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		bw.WriteByte('\n')
	}
	bg := s.BackgroundColor
	f(bg.X())
	f(bg.Y())
	f(bg.Z())
	if s.UIVisible {
		bw.WriteString("1\n")
	} else {
		bw.WriteString("0\n")
	}
	for _, v := range s.Camera.Position {
		f(v)
	}
	for _, v := range s.Camera.Front {
		f(v)
	}
	return bw.Flush()
}

// Load reads a snapshot written by Save. A missing file returns an error
// wrapping fs.ErrNotExist and leaves the state untouched.
func (s *ProgramState) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	defer f.Close()
	if err := s.ReadSnapshot(f); err != nil {
		return fmt.Errorf("load state %q: %w", path, err)
	}
	return nil
}

// ReadSnapshot reads whitespace-separated values in snapshot order. Reading
// stops at the first missing or malformed value: fields before it are
// applied, it and everything after keep their current values, and an error
// naming the field is returned.
func (s *ProgramState) ReadSnapshot(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	front := s.Camera.Front
	frontRead := false
	defer func() {
		if frontRead {
			s.Camera.SetFront(front)
		}
	}()

	for i, name := range snapshotFields {
		if !sc.Scan() {
			err := sc.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		tok := sc.Text()

		if i == 3 {
			switch tok {
			case "0":
				s.UIVisible = false
			case "1":
				s.UIVisible = true
			default:
				return fmt.Errorf("%s: %w", name, errBadFlag)
			}
			continue
		}

		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch {
		case i < 3:
			s.BackgroundColor[i] = float32(v)
		case i < 7:
			s.Camera.Position[i-4] = float32(v)
		default:
			front[i-7] = float32(v)
			frontRead = true
		}
	}
	return nil
}

var errBadFlag = errors.New("expected 0 or 1")
