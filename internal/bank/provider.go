package bank

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// AllBanksName is the display name of the combined bank.
const AllBanksName = "All Banks"

// Loader reads stored banks.
type Loader interface {
	LoadBank(ctx context.Context, id model.BankID) (model.Bank, error)
}

// Provider serves immutable question banks. It is safe for concurrent use.
type Provider struct {
	banks map[model.BankID]model.Bank
	all   []model.Question
}

// NewProvider validates the named banks and builds a provider. Every bank in
// model.NamedBanks must be present.
func NewProvider(banks []model.Bank) (*Provider, error) {
	p := &Provider{banks: make(map[model.BankID]model.Bank, len(banks))}
	for _, b := range banks {
		if err := Validate(b); err != nil {
			return nil, err
		}
		p.banks[b.ID] = b
	}
	for _, id := range model.NamedBanks {
		b, ok := p.banks[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing", model.ErrUnknownBank, id)
		}
		p.all = append(p.all, b.Questions...)
	}
	return p, nil
}

// Load reads every named bank concurrently and builds a provider.
func Load(ctx context.Context, loader Loader) (*Provider, error) {
	banks := make([]model.Bank, len(model.NamedBanks))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range model.NamedBanks {
		i, id := i, id
		g.Go(func() error {
			b, err := loader.LoadBank(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", id, err)
			}
			banks[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewProvider(banks)
}

// Bank returns a copy of the questions of a bank; allBanks concatenates the
// named banks in their stable order.
func (p *Provider) Bank(id model.BankID) ([]model.Question, error) {
	var src []model.Question
	switch id {
	case model.AllBanks:
		src = p.all
	default:
		b, ok := p.banks[id]
		if !ok {
			return nil, &model.UnknownBankError{ID: string(id)}
		}
		src = b.Questions
	}
	out := make([]model.Question, len(src))
	copy(out, src)
	return out, nil
}

// Banks lists the selectable banks, named banks first, then allBanks.
func (p *Provider) Banks() []model.BankInfo {
	infos := make([]model.BankInfo, 0, len(model.NamedBanks)+1)
	for _, id := range model.NamedBanks {
		b := p.banks[id]
		infos = append(infos, model.BankInfo{ID: id, Name: b.Name, Count: len(b.Questions)})
	}
	infos = append(infos, model.BankInfo{ID: model.AllBanks, Name: AllBanksName, Count: len(p.all)})
	return infos
}
