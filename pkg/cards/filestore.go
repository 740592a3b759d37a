package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDebounce coalesces bursts of filesystem events into one reload.
const reloadDebounce = 100 * time.Millisecond

// FileStore is a Store backed by a JSON card database on disk. The
// whole database is held in memory; Watch keeps it current when the
// file is rewritten.
type FileStore struct {
	path   string
	logger zerolog.Logger

	mu     sync.RWMutex
	list   []Card
	byName map[string]int // normalized name -> index into list

	watcher      *fsnotify.Watcher
	done         chan struct{}
	stopOnce     sync.Once
	reloadTimer  *time.Timer
	reloadMu     sync.Mutex
}

// NewFileStore loads the card database at path.
func NewFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload reads the database file and swaps the in-memory snapshot.
func (s *FileStore) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read card database: %w", err)
	}

	var list []Card
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to parse card database: %w", err)
	}

	byName := make(map[string]int, len(list))
	for i, card := range list {
		key := normalizeName(card.Name)
		if _, dup := byName[key]; dup {
			s.logger.Warn().Str("card", card.Name).Msg("Duplicate card name in database, keeping first")
			continue
		}
		byName[key] = i
	}

	s.mu.Lock()
	s.list = list
	s.byName = byName
	s.mu.Unlock()

	s.logger.Info().Str("path", s.path).Int("cards", len(list)).Msg("Card database loaded")
	return nil
}

// FindByName returns the card whose name matches, ignoring case and
// surrounding whitespace. A unique prefix also matches, so "Lightning
// Bol" still resolves while "Light" (ambiguous) does not.
func (s *FileStore) FindByName(_ context.Context, name string) (*Card, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, ErrCardNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.byName[key]; ok {
		card := s.list[i]
		return &card, nil
	}

	match := -1
	for candidate, i := range s.byName {
		if !strings.HasPrefix(candidate, key) {
			continue
		}
		if match >= 0 {
			return nil, ErrCardNotFound // ambiguous prefix
		}
		match = i
	}
	if match < 0 {
		return nil, ErrCardNotFound
	}
	card := s.list[match]
	return &card, nil
}

// SimilarCards returns up to limit alternatives for the named card:
// same primary card type, overlapping colors, cheapest first.
func (s *FileStore) SimilarCards(ctx context.Context, name string, limit int) ([]Card, error) {
	base, err := s.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	baseType := primaryType(base.TypeLine)
	baseColors := colorsOf(base.ManaCost)

	s.mu.RLock()
	candidates := make([]Card, 0, limit)
	for _, card := range s.list {
		if card.ID == base.ID {
			continue
		}
		if primaryType(card.TypeLine) != baseType {
			continue
		}
		if len(baseColors) > 0 && !sharesColor(baseColors, colorsOf(card.ManaCost)) {
			continue
		}
		candidates = append(candidates, card)
	}
	s.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].PriceUSD < candidates[j].PriceUSD
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Watch reloads the snapshot whenever the database file is rewritten.
// The parent directory is watched because editors and atomic writers
// replace the file rather than writing it in place.
func (s *FileStore) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch card database: %w", err)
	}
	s.watcher = watcher

	go s.eventLoop()

	s.logger.Info().Str("path", s.path).Msg("Card database watcher started")
	return nil
}

func (s *FileStore) eventLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.scheduleReload()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("Card database watcher error")

		case <-s.done:
			return
		}
	}
}

// scheduleReload debounces event bursts so one save triggers one reload.
func (s *FileStore) scheduleReload() {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.reloadTimer != nil {
		s.reloadTimer.Stop()
	}
	s.reloadTimer = time.AfterFunc(reloadDebounce, func() {
		if err := s.reload(); err != nil {
			s.logger.Error().Err(err).Msg("Card database reload failed, keeping previous snapshot")
		}
	})
}

// Close stops the watcher, if one was started.
func (s *FileStore) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)

		s.reloadMu.Lock()
		if s.reloadTimer != nil {
			s.reloadTimer.Stop()
		}
		s.reloadMu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

// Len reports the number of cards in the current snapshot.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// primaryType extracts the rightmost card type before the subtype dash
// ("Legendary Creature — Human Wizard" -> "Creature").
func primaryType(typeLine string) string {
	left := typeLine
	if i := strings.IndexAny(typeLine, "—-"); i >= 0 {
		left = typeLine[:i]
	}
	fields := strings.Fields(left)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// colorsOf extracts the color letters present in a mana cost.
func colorsOf(manaCost string) map[rune]bool {
	colors := map[rune]bool{}
	for _, r := range manaCost {
		switch r {
		case 'W', 'U', 'B', 'R', 'G':
			colors[r] = true
		}
	}
	return colors
}

func sharesColor(a, b map[rune]bool) bool {
	for r := range a {
		if b[r] {
			return true
		}
	}
	return false
}
