package cards

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Index is the default Knowledge implementation. It combines a built-in
// table of format staples with an optional JSON override file and, for
// cards in neither, name-based heuristics (most land cycles follow
// predictable naming conventions).
type Index struct {
	mu        sync.RWMutex
	entries   map[string]Role
	overrides map[string]Role
	logger    *slog.Logger
}

// IndexConfig configures an Index.
type IndexConfig struct {
	// OverridePath is an optional JSON file mapping card names to roles.
	// Entries there win over the built-in table.
	OverridePath string

	// Watch enables hot reload of the override file via fsnotify.
	Watch bool

	Logger *slog.Logger
}

// NewIndex creates an Index from the built-in table plus the configured
// override file, if any.
func NewIndex(cfg IndexConfig) (*Index, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	idx := &Index{
		entries:   builtinRoles(),
		overrides: make(map[string]Role),
		logger:    cfg.Logger,
	}

	if cfg.OverridePath != "" {
		if err := idx.loadOverrides(cfg.OverridePath); err != nil {
			return nil, err
		}
		if cfg.Watch {
			if err := idx.watchOverrides(cfg.OverridePath); err != nil {
				return nil, err
			}
		}
	}

	return idx, nil
}

// Role resolves a card name to its functional roles. Unknown cards fall
// back to name heuristics with Known=false.
func (idx *Index) Role(name string) Role {
	key := normalizeName(name)

	idx.mu.RLock()
	role, ok := idx.overrides[key]
	if !ok {
		role, ok = idx.entries[key]
	}
	idx.mu.RUnlock()

	if ok {
		role.Known = true
		return role
	}

	return heuristicRole(name)
}

// loadOverrides replaces the override table from the JSON file at path.
func (idx *Index) loadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read card role overrides: %w", err)
	}

	var raw map[string]Role
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse card role overrides: %w", err)
	}

	normalized := make(map[string]Role, len(raw))
	for name, role := range raw {
		normalized[normalizeName(name)] = role
	}

	idx.mu.Lock()
	idx.overrides = normalized
	idx.mu.Unlock()

	idx.logger.Info("card role overrides loaded", "path", path, "entries", len(normalized))
	return nil
}

// normalizeName canonicalizes a card name for lookup. Double-faced card
// names are keyed by their front face.
func normalizeName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if front, _, ok := strings.Cut(name, " // "); ok {
		name = front
	}
	return name
}

// heuristicRole guesses roles for cards missing from the knowledge base.
// Land cycles are the main target: basics and most nonbasic cycles are
// recognizable from the name alone.
func heuristicRole(name string) Role {
	lower := normalizeName(name)

	if colors, ok := basicLandColors[strings.TrimPrefix(lower, "snow-covered ")]; ok {
		return Role{IsLand: true, ColorsProduced: colors}
	}

	for _, suffix := range landNameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return Role{IsLand: true, ColorsProduced: allColors()}
		}
	}

	return Role{}
}

var basicLandColors = map[string][]string{
	"plains":   {"W"},
	"island":   {"U"},
	"swamp":    {"B"},
	"mountain": {"R"},
	"forest":   {"G"},
	"wastes":   {},
}

// landNameSuffixes covers the common nonbasic land naming conventions.
// Produced colors are unknowable from the name, so these count as
// any-color sources; the override file is the fix for precise identity.
var landNameSuffixes = []string{
	" tower", " grounds", " confluence", " citadel", " expanse",
	" foothills", " strand", " mire", " delta", " heath", " mesa",
	" rainforest", " shore", " fountain", " vents", " foundry",
	" pool", " garden", " sanctuary", " courtyard", " hideaway",
}

func allColors() []string {
	return []string{"W", "U", "B", "R", "G"}
}
