// Package dataset loads the static price book and ZIP boundary datasets.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/scopesignals/coverage/internal/domain"
)

// LoadPriceBook decodes a JSON array of price-book rows. Module keys are
// normalized; rows naming an unknown module are kept as-is and simply never
// match a module build.
func LoadPriceBook(r io.Reader) ([]domain.PriceBookEntry, error) {
	var entries []domain.PriceBookEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode price book: %w", err)
	}
	for i := range entries {
		if m, err := domain.ParseModule(string(entries[i].Module)); err == nil {
			entries[i].Module = m
		}
	}
	return entries, nil
}

// LoadPriceBookFile reads the price book from path.
func LoadPriceBookFile(path string) ([]domain.PriceBookEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price book: %w", err)
	}
	defer f.Close()
	return LoadPriceBook(f)
}
