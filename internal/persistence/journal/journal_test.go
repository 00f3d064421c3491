package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"pixelpet.ai/internal/game"
)

func TestEventJournal_WriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	j := NewEventJournal(dir)

	entries := []game.JournalEntry{
		{At: time.Unix(1726000000, 0).UTC(), Kind: game.EvChangeActivity,
			Data: map[string]any{"activity": "reading", "tool_name": "Read"}, Level: 1},
		{At: time.Unix(1726000001, 0).UTC(), Kind: game.EvAwardResources,
			Data: map[string]any{"xp": 1, "tokens": 1, "tool_name": "Read"}, Level: 1},
	}
	for _, e := range entries {
		if err := j.WriteEvent(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "events", "events-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one journal file, got %v (%v)", matches, err)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	var got []game.JournalEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e game.JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		got = append(got, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(entries) {
		t.Fatalf("read back %d entries, want %d", len(got), len(entries))
	}
	if got[0].Kind != game.EvChangeActivity || got[1].Kind != game.EvAwardResources {
		t.Fatalf("entry order lost: %+v", got)
	}
}
