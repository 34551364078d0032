package bank

import (
	"context"
	"embed"
	"fmt"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

//go:embed defaults/*.yaml
var defaultFiles embed.FS

// Saver stores banks.
type Saver interface {
	HasBanks(ctx context.Context) (bool, error)
	ReplaceBank(ctx context.Context, b model.Bank) error
}

// Defaults returns the built-in banks in model.NamedBanks order.
func Defaults() ([]model.Bank, error) {
	banks := make([]model.Bank, 0, len(model.NamedBanks))
	for _, id := range model.NamedBanks {
		data, err := defaultFiles.ReadFile("defaults/" + string(id) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read default %s: %w", id, err)
		}
		b, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("default %s: %w", id, err)
		}
		banks = append(banks, b)
	}
	return banks, nil
}

// Seed stores the built-in banks when the store has none yet.
// It reports whether anything was written.
func Seed(ctx context.Context, st Saver) (bool, error) {
	has, err := st.HasBanks(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to inspect store: %w", err)
	}
	if has {
		return false, nil
	}
	banks, err := Defaults()
	if err != nil {
		return false, err
	}
	for _, b := range banks {
		if err := st.ReplaceBank(ctx, b); err != nil {
			return false, fmt.Errorf("failed to seed %s: %w", b.ID, err)
		}
	}
	return true, nil
}
