package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pable/go-w3-metrics/internal/model"
)

const sampleLog = `# decoded by w3g-dump
{"kind":"player","player":1,"name":"Grubby","team":0,"color":0,"race":"O"}
{"kind":"player","player":2,"name":"Moon","team":1,"color":1,"race":"nightelf"}

{"kind":"timeslot","ms":250}
{"kind":"action","player":1,"op":16,"item":"opeo"}
{"kind":"action","player":2,"op":18,"bytes":[3,0,13,0]}
{"kind":"action","player":2,"op":22,"select_mode":2}
{"kind":"timeslot","ms":250}
{"kind":"leave","player":2}
`

func TestDecode(t *testing.T) {
	raw, err := Decode(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(raw.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(raw.Players))
	}
	if raw.Players[0].Name != "Grubby" || raw.Players[0].Race != model.RaceOrc {
		t.Errorf("player 1 = %+v", raw.Players[0])
	}
	if raw.Players[1].Race != model.RaceNightElf || raw.Players[1].Color != 1 {
		t.Errorf("player 2 = %+v", raw.Players[1])
	}
	if len(raw.Blocks) != 6 {
		t.Fatalf("expected 6 blocks, got %d", len(raw.Blocks))
	}

	b := raw.Blocks[1]
	if b.Kind != model.BlockAction || b.PlayerID != 1 || b.Action.ID != model.ActionUnitOrderNoTarget {
		t.Errorf("block 1 = %+v", b)
	}
	if b.Action.ItemID.Kind != model.ItemIDString || b.Action.ItemID.Code != "opeo" {
		t.Errorf("item id = %+v", b.Action.ItemID)
	}

	b = raw.Blocks[2]
	if b.Action.ItemID.Kind != model.ItemIDAlphanumeric {
		t.Errorf("expected alphanumeric id, got %+v", b.Action.ItemID)
	}
	if b0, b1 := b.Action.ItemID.Pair(); b0 != 0x03 || b1 != 0x00 {
		t.Errorf("pair = %#x %#x", b0, b1)
	}

	if raw.Blocks[3].Action.SelectMode != model.SelectModeDeselect {
		t.Errorf("select mode = %d", raw.Blocks[3].Action.SelectMode)
	}
	if raw.Blocks[5].Kind != model.BlockLeave || raw.Blocks[5].PlayerID != 2 {
		t.Errorf("leave block = %+v", raw.Blocks[5])
	}
}

func TestDecode_Errors(t *testing.T) {
	player := `{"kind":"player","player":1,"race":"H"}` + "\n"
	cases := []struct {
		name string
		log  string
	}{
		{"no players", `{"kind":"timeslot","ms":10}`},
		{"bad json", player + `{"kind":`},
		{"unknown kind", player + `{"kind":"chat","player":1}`},
		{"undeclared player", player + `{"kind":"action","player":9,"op":16,"item":"hfoo"}`},
		{"duplicate player", player + player},
		{"missing op", player + `{"kind":"action","player":1,"item":"hfoo"}`},
		{"op out of range", player + `{"kind":"action","player":1,"op":300}`},
		{"byte out of range", player + `{"kind":"action","player":1,"op":18,"bytes":[256,0]}`},
		{"item and bytes", player + `{"kind":"action","player":1,"op":16,"item":"hfoo","bytes":[1]}`},
		{"negative slot", player + `{"kind":"timeslot","ms":-1}`},
		{"unknown race", `{"kind":"player","player":1,"race":"Z"}`},
		{"leave for undeclared", player + `{"kind":"leave","player":3}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tc.log)); err == nil {
				t.Errorf("expected error for %q", tc.log)
			}
		})
	}

	if _, err := Decode(strings.NewReader("")); !errors.Is(err, ErrEmptyLog) {
		t.Errorf("expected ErrEmptyLog, got %v", err)
	}
}

func TestParseActionLog_HashIsStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "match.jsonl")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatal(err)
	}

	r1, err := ParseActionLog(path)
	if err != nil {
		t.Fatalf("ParseActionLog: %v", err)
	}
	r2, err := ParseActionLog(path)
	if err != nil {
		t.Fatalf("ParseActionLog: %v", err)
	}
	if len(r1.Hash) != 64 || r1.Hash != r2.Hash {
		t.Errorf("hashes %q / %q", r1.Hash, r2.Hash)
	}
	if r1.FileName != "match.jsonl" {
		t.Errorf("FileName = %q", r1.FileName)
	}

	if _, err := ParseActionLog(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}
