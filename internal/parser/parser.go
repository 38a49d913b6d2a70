package parser

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pable/go-w3-metrics/internal/model"
)

// ErrEmptyLog is returned for a log that declares no players.
var ErrEmptyLog = errors.New("action log declares no players")

// maxLineBytes bounds a single JSON record.
const maxLineBytes = 1 << 20

// record is one JSON line of a decoded action log.
type record struct {
	Kind       string `json:"kind"`
	Player     int    `json:"player"`
	Name       string `json:"name"`
	Team       int    `json:"team"`
	Color      int    `json:"color"`
	Race       string `json:"race"`
	MS         int    `json:"ms"`
	Op         *int   `json:"op"`
	Item       string `json:"item"`
	Bytes      []int  `json:"bytes"`
	SelectMode int    `json:"select_mode"`
}

// ParseActionLog reads the decoded action log at path and returns a RawReplay.
func ParseActionLog(path string) (*model.RawReplay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open action log: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash action log: %w", err)
	}

	// Seek back to start for the decoder.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek action log: %w", err)
	}

	raw, err := Decode(f)
	if err != nil {
		return nil, err
	}
	raw.Hash = fmt.Sprintf("%x", h.Sum(nil))
	raw.FileName = filepath.Base(path)
	return raw, nil
}

// Decode reads JSON Lines records from r. Blank lines and lines starting with
// '#' are skipped. The returned replay has no Hash.
func Decode(r io.Reader) (*model.RawReplay, error) {
	raw := &model.RawReplay{}
	declared := make(map[int]bool)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		var rec record
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("line %d: decode: %w", line, err)
		}

		switch rec.Kind {
		case "player":
			if declared[rec.Player] {
				return nil, fmt.Errorf("line %d: player %d declared twice", line, rec.Player)
			}
			race, err := parseRace(rec.Race)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			declared[rec.Player] = true
			raw.Players = append(raw.Players, model.RawPlayer{
				ID:     rec.Player,
				Name:   rec.Name,
				TeamID: rec.Team,
				Color:  rec.Color,
				Race:   race,
			})

		case "timeslot":
			if rec.MS < 0 {
				return nil, fmt.Errorf("line %d: negative time increment %d", line, rec.MS)
			}
			raw.Blocks = append(raw.Blocks, model.RawBlock{Kind: model.BlockTimeSlot, MS: rec.MS})

		case "action":
			if !declared[rec.Player] {
				return nil, fmt.Errorf("line %d: action for undeclared player %d", line, rec.Player)
			}
			a, err := toAction(rec)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			raw.Blocks = append(raw.Blocks, model.RawBlock{Kind: model.BlockAction, PlayerID: rec.Player, Action: a})

		case "leave":
			if !declared[rec.Player] {
				return nil, fmt.Errorf("line %d: leave for undeclared player %d", line, rec.Player)
			}
			raw.Blocks = append(raw.Blocks, model.RawBlock{Kind: model.BlockLeave, PlayerID: rec.Player})

		default:
			return nil, fmt.Errorf("line %d: unknown record kind %q", line, rec.Kind)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read action log: %w", err)
	}
	if len(raw.Players) == 0 {
		return nil, ErrEmptyLog
	}
	return raw, nil
}

func toAction(rec record) (model.Action, error) {
	if rec.Op == nil {
		return model.Action{}, fmt.Errorf("action without op")
	}
	if *rec.Op < 0 || *rec.Op > 0xFF {
		return model.Action{}, fmt.Errorf("op %d out of range", *rec.Op)
	}
	a := model.Action{ID: byte(*rec.Op), SelectMode: rec.SelectMode}

	switch {
	case rec.Item != "" && rec.Bytes != nil:
		return model.Action{}, fmt.Errorf("action has both item and bytes")
	case rec.Item != "":
		a.ItemID = model.StringID(rec.Item)
	case rec.Bytes != nil:
		b := make([]byte, len(rec.Bytes))
		for i, v := range rec.Bytes {
			if v < 0 || v > 0xFF {
				return model.Action{}, fmt.Errorf("order byte %d out of range", v)
			}
			b[i] = byte(v)
		}
		a.ItemID = model.AlphanumericID(b...)
	}
	return a, nil
}

func parseRace(s string) (model.Race, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return model.RaceUnknown, nil
	case "H", "HUMAN":
		return model.RaceHuman, nil
	case "O", "ORC":
		return model.RaceOrc, nil
	case "N", "E", "NIGHTELF", "NIGHT ELF":
		return model.RaceNightElf, nil
	case "U", "UNDEAD":
		return model.RaceUndead, nil
	case "R", "RANDOM":
		return model.RaceRandom, nil
	default:
		return model.RaceUnknown, fmt.Errorf("unknown race %q", s)
	}
}
