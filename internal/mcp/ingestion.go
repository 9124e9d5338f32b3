package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"crm-forecast-mcp/internal/crm"
	"crm-forecast-mcp/internal/dealstore"

	"github.com/rs/zerolog/log"
)

// importFile reads a JSONL deal export from an arbitrary path into the given
// store partition. Invalid lines are skipped with a warning; a file with no
// valid deals is an error.
func importFile(store *dealstore.Store, path, source string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	var deals []crm.Deal
	skipped := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var d crm.Deal
		if err := json.Unmarshal(line, &d); err != nil {
			skipped++
			continue
		}
		if d.ID == "" {
			skipped++
			continue
		}
		deals = append(deals, d)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading import file: %w", err)
	}

	if len(deals) == 0 {
		return fmt.Errorf("no valid deal records in %s", path)
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("path", path).Msg("Skipped invalid lines during import")
	}

	store.Put(source, deals)
	return nil
}
