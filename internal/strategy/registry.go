package strategy

import (
	"fmt"
	"sort"

	"github.com/san-kum/biomorph/internal/morph"
)

// Registry maps biomorph types to strategy factories. Only the mold
// reference heuristic is registered out of the box; the other types must
// be registered with an explicit BiasProfile. Requesting an unregistered
// type fails rather than silently borrowing another heuristic.
type Registry struct {
	factories map[morph.BiomorphType]func() Strategy
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[morph.BiomorphType]func() Strategy)}
	r.factories[morph.TypeMold] = func() Strategy { return NewMold() }
	return r
}

// Register installs a factory for typ, replacing any previous one.
func (r *Registry) Register(typ morph.BiomorphType, fn func() Strategy) {
	r.factories[typ] = fn
}

// RegisterBiased installs a Biased strategy for typ with the given
// extension-point coefficients.
func (r *Registry) RegisterBiased(typ morph.BiomorphType, profile BiasProfile) {
	r.factories[typ] = func() Strategy { return NewBiased(typ, profile) }
}

func (r *Registry) Get(typ morph.BiomorphType) (Strategy, error) {
	fn, ok := r.factories[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", morph.ErrUnsupportedBiomorph, typ)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for typ := range r.factories {
		names = append(names, string(typ))
	}
	sort.Strings(names)
	return names
}
