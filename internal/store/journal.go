package store

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"sortable-cli/internal/model"
)

// JournalEntry is one line of the append-only change journal: the batch a
// completed drop published, with an id and timestamp for audit.
type JournalEntry struct {
	ID      string            `json:"id"`
	TS      time.Time         `json:"ts"`
	Records model.ChangeBatch `json:"records"`
}

// AppendJournal appends a published batch to changes.jsonl.
func (s Store) AppendJournal(batch model.ChangeBatch) (JournalEntry, error) {
	if err := s.Ensure(); err != nil {
		return JournalEntry{}, err
	}
	e := JournalEntry{
		ID:      "batch-" + uuid.NewString(),
		TS:      time.Now().UTC(),
		Records: batch,
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return JournalEntry{}, err
	}

	f, err := os.OpenFile(s.journalPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return JournalEntry{}, err
	}
	defer f.Close()
	if _, err := f.Write(append(raw, '\n')); err != nil {
		return JournalEntry{}, err
	}
	return e, nil
}

// ReadJournal returns all journal entries in append order. Unparsable lines
// are skipped rather than failing the read.
func (s Store) ReadJournal() ([]JournalEntry, error) {
	f, err := os.Open(s.journalPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []JournalEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e JournalEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
