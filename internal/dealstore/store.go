// Package dealstore provides thread-safe JSONL-backed storage for raw deal
// records. It is the only persistence in the system and stores inputs, never
// derived scores.
package dealstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"crm-forecast-mcp/internal/crm"

	"github.com/rs/zerolog/log"
)

// Store holds deal snapshots partitioned by source name.
type Store struct {
	mu    sync.RWMutex
	deals map[string][]crm.Deal
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{deals: make(map[string][]crm.Deal)}
}

// Put merges deals into the named source, deduplicating on deal ID: a newer
// UpdatedAt replaces an older snapshot of the same deal. The partition is
// kept sorted by deal ID for deterministic reads.
func (s *Store) Put(source string, deals []crm.Deal) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]crm.Deal, len(s.deals[source]))
	for _, d := range s.deals[source] {
		byID[d.ID] = d
	}

	merged := 0
	for _, d := range deals {
		if d.ID == "" {
			continue
		}
		existing, ok := byID[d.ID]
		if ok && !d.UpdatedAt.After(existing.UpdatedAt) {
			continue
		}
		byID[d.ID] = d
		merged++
	}

	if merged == 0 {
		return 0
	}

	next := make([]crm.Deal, 0, len(byID))
	for _, d := range byID {
		next = append(next, d)
	}
	sort.Slice(next, func(i, j int) bool { return next[i].ID < next[j].ID })

	s.deals[source] = next
	return merged
}

// All returns a copy of every deal in the source.
func (s *Store) All(source string) []crm.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]crm.Deal(nil), s.deals[source]...)
}

// Open returns a copy of the deals whose stage is not terminal.
func (s *Store) Open(source string) []crm.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var open []crm.Deal
	for _, d := range s.deals[source] {
		if !d.Stage.IsClosed() {
			open = append(open, d)
		}
	}
	return open
}

// ClosedWonBetween returns won deals whose last update falls in [start, end).
func (s *Store) ClosedWonBetween(source string, start, end time.Time) []crm.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var won []crm.Deal
	for _, d := range s.deals[source] {
		if d.Stage != crm.StageClosedWon {
			continue
		}
		if d.UpdatedAt.Before(start) || !d.UpdatedAt.Before(end) {
			continue
		}
		won = append(won, d)
	}
	return won
}

// Count returns the number of deals held for a source.
func (s *Store) Count(source string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deals[source])
}

// Load reads deals from the source's JSONL file under dataDir. A missing
// file is not an error; invalid lines are skipped with a warning.
func (s *Store) Load(dataDir, source string) error {
	path := filepath.Join(dataDir, fmt.Sprintf("%s.jsonl", source))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open deal file: %w", err)
	}
	defer file.Close()

	var deals []crm.Deal
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var d crm.Deal
		if err := json.Unmarshal(scanner.Bytes(), &d); err != nil {
			log.Warn().Err(err).Str("source", source).Msg("Skipping invalid JSON line in deal file")
			continue
		}
		deals = append(deals, d)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading deal file: %w", err)
	}

	log.Info().Str("source", source).Int("count", len(deals)).Msg("Loaded deals from file")
	s.Put(source, deals)
	return nil
}

// Save persists the source's deals to its JSONL file via an atomic rename.
func (s *Store) Save(dataDir, source string) error {
	s.mu.RLock()
	deals := append([]crm.Deal(nil), s.deals[source]...)
	s.mu.RUnlock()

	if len(deals) == 0 {
		return nil
	}

	path := filepath.Join(dataDir, fmt.Sprintf("%s.jsonl", source))
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp deal file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, d := range deals {
		if err := encoder.Encode(d); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode deal: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename deal file: %w", err)
	}

	log.Info().Str("source", source).Int("count", len(deals)).Msg("Deals saved to file")
	return nil
}
