package territory

import (
	"context"
	"errors"
	"fmt"

	"powermatch/internal/repository"
)

// SyncSeed inserts seed mappings that have no database row yet, so ZIP
// resolution and city availability counts answer from the same dataset.
// Existing rows are never touched; database lookups win over the seed, so
// admin edits survive restarts. Returns the number of rows inserted.
func SyncSeed(ctx context.Context, repo repository.TerritoryRepository, static *StaticMap) (int, error) {
	inserted := 0
	for _, mapping := range static.Mappings() {
		m := mapping
		err := repo.Create(ctx, &m)
		if errors.Is(err, repository.ErrTerritoryExists) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to seed zip mapping %s: %w", m.ZIPCode, err)
		}
		inserted++
	}
	return inserted, nil
}
