// Package deriving holds the built-in catalog of derivable traits and the
// driver that walks parsed programs expanding #[derive(...)] requests
// against it.
//
// Each trait is a declarative TraitDef table over the derive engine. The
// registry adds naming, stability, and language-version gating on top; the
// tables themselves only describe method signatures and body combinators.
package deriving

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-derive/internal/derive"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
	"github.com/orizon-lang/orizon-derive/internal/parser"
	"github.com/orizon-lang/orizon-derive/internal/position"
)

// BuilderFunc constructs the TraitDef for one derive request. target is the
// declaration carrying the request; builders may inspect it to specialize
// the table (Clone switches to a shallow copy on unions). A builder that
// reports the request through the sink returns nil and the driver moves on.
type BuilderFunc func(ctx *derive.Context, span position.Span, target parser.Declaration) *derive.TraitDef

// Stability classifies a registry entry.
type Stability int

const (
	StabilityStable Stability = iota
	StabilityUnstable
)

func (s Stability) String() string {
	if s == StabilityUnstable {
		return "unstable"
	}
	return "stable"
}

// Entry is one derivable trait in the registry.
type Entry struct {
	Name      string
	Builder   BuilderFunc
	Stability Stability

	// Since gates the entry on the configured language version, as a semver
	// constraint. Empty admits every version.
	Since string

	since *semver.Constraints
}

// Available reports whether the entry can be derived under the given
// language version and unstable opt-in. The returned error wraps
// ErrUnstableTrait.
func (e *Entry) Available(version *semver.Version, allowUnstable bool) error {
	if e.Stability == StabilityUnstable && !allowUnstable {
		return oerrors.Wrapf(oerrors.ErrUnstableTrait,
			"derive(%s) is unstable and unstable traits are not enabled", e.Name)
	}
	if e.since != nil && version != nil && !e.since.Check(version) {
		return oerrors.Wrapf(oerrors.ErrUnstableTrait,
			"derive(%s) requires language version %s, configured version is %s", e.Name, e.Since, version)
	}
	return nil
}

// Registry maps trait names to entries. Lookup is case-sensitive: derive(eq)
// does not find PartialEq.
type Registry struct {
	entries map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds an entry, replacing any previous entry with the same name.
// A malformed Since constraint is a bug in the calling catalog.
func (r *Registry) Register(e *Entry) {
	if e.Since != "" {
		c, err := semver.NewConstraint(e.Since)
		if err != nil {
			panic(oerrors.AssertionFailedf("registry entry %s has version constraint %q: %v", e.Name, e.Since, err))
		}
		e.since = c
	}
	r.entries[e.Name] = e
}

// Lookup finds an entry by exact name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Resolve finds an entry by exact name, returning ErrUnknownTrait for names
// the registry does not carry.
func (r *Registry) Resolve(name string) (*Entry, error) {
	if e, ok := r.entries[name]; ok {
		return e, nil
	}
	return nil, oerrors.Wrapf(oerrors.ErrUnknownTrait, "no derivable trait named %s", name)
}

// Names returns the registered trait names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the registered entries sorted by name.
func (r *Registry) Entries() []*Entry {
	entries := make([]*Entry, 0, len(r.entries))
	for _, name := range r.Names() {
		entries = append(entries, r.entries[name])
	}
	return entries
}

// Builtin returns a registry holding the language's standard derivable
// traits.
func Builtin() *Registry {
	r := NewRegistry()
	for _, e := range []*Entry{
		{Name: "PartialEq", Builder: partialEqTrait, Since: ">=0.1.0"},
		{Name: "Eq", Builder: eqTrait, Since: ">=0.1.0"},
		{Name: "PartialOrd", Builder: partialOrdTrait, Since: ">=0.1.0"},
		{Name: "Ord", Builder: ordTrait, Since: ">=0.1.0"},
		{Name: "Clone", Builder: cloneTrait, Since: ">=0.1.0"},
		{Name: "Copy", Builder: copyTrait, Since: ">=0.1.0"},
		{Name: "Hash", Builder: hashTrait, Since: ">=0.1.0"},
		{Name: "Default", Builder: defaultTrait, Since: ">=0.1.0"},
		{Name: "Debug", Builder: debugTrait, Since: ">=0.1.0"},
	} {
		r.Register(e)
	}
	return r
}
