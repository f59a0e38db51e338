package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// maxHistory is the number of entries kept in the history file.
	maxHistory = 1000
)

// Entry is one line of input together with the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

func (e Entry) encode() string {
	if e.Mode == modeCtrl {
		return "C:" + e.Line
	}

	return "E:" + e.Line
}

func decode(line string) Entry {
	if s, ok := strings.CutPrefix(line, "C:"); ok {
		return Entry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, "E:")

	return Entry{Line: s, Mode: modeEval}
}

// History is the input history of a session, persisted to a file with one
// entry per line. An empty path keeps the history in memory only.
type History struct {
	path    string
	mu      sync.RWMutex
	entries []Entry
}

// NewHistory returns an empty history backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the contents of the history file. A
// missing file is an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer f.Close()

	h.entries = h.entries[:0]

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			h.entries = append(h.entries, decode(line))
		}
	}

	return sc.Err()
}

// Add appends line in mode. An earlier identical entry is moved to the end
// rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	e := Entry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	before := len(h.entries)
	h.entries = slices.DeleteFunc(h.entries, func(x Entry) bool { return x == e })
	h.entries = append(h.entries, e)

	rewrite := len(h.entries) <= before
	if over := len(h.entries) - maxHistory; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
		rewrite = true
	}

	if h.path == "" {
		return nil
	}

	if rewrite {
		return h.save()
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(e.encode() + "\n")

	return err
}

// save rewrites the history file. h.mu must be held.
func (h *History) save() error {
	var b strings.Builder

	for _, e := range h.entries {
		b.WriteString(e.encode())
		b.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}

// At returns the entry at index i, oldest first.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
