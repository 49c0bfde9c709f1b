// Package config is the board configuration surface: which lists exist, what
// they may send to each other, and the engine switches.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sortable-cli/internal/model"
	"sortable-cli/internal/zone"
)

const FileName = "board.yaml"

// List declares one list. AllowedTargets is a comma-separated set of list
// ids this list may send items to; empty means it sends nothing anywhere.
type List struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title,omitempty"`
	AllowedTargets string `yaml:"allowedTargets,omitempty"`
}

// Targets splits the comma-separated allowed-target declaration.
func (l List) Targets() []string {
	parts := strings.Split(l.AllowedTargets, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DisplayTitle falls back to the id when no title is configured.
func (l List) DisplayTitle() string {
	if t := strings.TrimSpace(l.Title); t != "" {
		return t
	}
	return l.ID
}

// Board is the whole configuration file.
type Board struct {
	Lists []List `yaml:"lists"`

	MultiSelect bool   `yaml:"multiSelect"`
	AllowOn     bool   `yaml:"allowOn"`
	ZoneMode    string `yaml:"zoneMode,omitempty"`
	FilterMode  string `yaml:"filterMode,omitempty"`

	// SelfImplicit is the explicit same-list permission rule. Unset means
	// true: reordering within a list needs no self-entry in allowedTargets.
	SelfImplicit *bool `yaml:"selfImplicit,omitempty"`
}

// Default returns the seed board used by `sortable init`.
func Default() Board {
	return Board{
		Lists: []List{
			{ID: "todo", Title: "To Do", AllowedTargets: "doing,done"},
			{ID: "doing", Title: "Doing", AllowedTargets: "todo,done"},
			{ID: "done", Title: "Done", AllowedTargets: "todo,doing"},
		},
		MultiSelect: true,
		AllowOn:     true,
		ZoneMode:    string(zone.ModeAuto),
		FilterMode:  string(model.FilterFullChange),
	}
}

func (b Board) Zone() zone.Mode { return zone.ParseMode(b.ZoneMode) }

func (b Board) Filter() model.FilterMode {
	if strings.EqualFold(strings.TrimSpace(b.FilterMode), string(model.FilterTargetOnly)) {
		return model.FilterTargetOnly
	}
	return model.FilterFullChange
}

func (b Board) SelfImplicitEnabled() bool {
	if b.SelfImplicit == nil {
		return true
	}
	return *b.SelfImplicit
}

// Find returns the list declaration for id.
func (b Board) Find(id string) (List, bool) {
	id = strings.TrimSpace(id)
	for _, l := range b.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return List{}, false
}

// Validate rejects boards the engine cannot host.
func (b Board) Validate() error {
	if len(b.Lists) == 0 {
		return errors.New("board declares no lists")
	}
	seen := map[string]bool{}
	for _, l := range b.Lists {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return errors.New("list with empty id")
		}
		if seen[id] {
			return fmt.Errorf("duplicate list id: %s", id)
		}
		seen[id] = true
	}
	for _, l := range b.Lists {
		for _, t := range l.Targets() {
			if !seen[t] {
				return fmt.Errorf("list %s allows unknown target %s", l.ID, t)
			}
		}
	}
	return nil
}

// Load reads and validates the board file in dir.
func Load(dir string) (Board, error) {
	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return Board{}, err
	}
	var b Board
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return Board{}, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Save writes the board file into dir, creating the directory if needed.
func Save(dir string, b Board) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(b)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), raw, 0o644)
}
