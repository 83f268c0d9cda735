package pattern

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicatePattern is returned when a name is registered twice.
var ErrDuplicatePattern = errors.New("pattern already registered")

// UnknownPatternError reports a reference to a pattern name that does
// not resolve in the registry.
type UnknownPatternError struct {
	Name string
}

func (e *UnknownPatternError) Error() string {
	return fmt.Sprintf("unknown pattern %q", e.Name)
}

// UnknownSetError reports a reference to a pattern set (or set version)
// that does not resolve in the registry.
type UnknownSetError struct {
	Name    string
	Version int // 0 when the set name itself is unknown
}

func (e *UnknownSetError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("unknown version %d of pattern set %q", e.Version, e.Name)
	}
	return fmt.Sprintf("unknown pattern set %q", e.Name)
}

// Set is one version of a named pattern bundle. Membership is ordered
// and append-only across versions: consumers pin a version to control
// when newly added patterns start applying to them.
type Set struct {
	Name     string
	Version  int
	Patterns []string
}

// Registry maps pattern names to patterns and set names to versioned
// sets. It is populated at startup and read-only afterwards, so scans
// can share it across workers without locking.
type Registry struct {
	patterns map[string]Pattern
	order    []string         // registration order; resolution is stable against it
	sets     map[string][]Set // versions in ascending order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		patterns: make(map[string]Pattern),
		sets:     make(map[string][]Set),
	}
}

// Register adds a pattern. Registering a name twice fails with
// ErrDuplicatePattern; a pattern failing Validate is rejected as-is.
func (r *Registry) Register(p Pattern) error {
	if err := Validate(p); err != nil {
		return err
	}
	name := p.Name()
	if _, exists := r.patterns[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePattern, name)
	}
	r.patterns[name] = p
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the pattern registered under name.
func (r *Registry) Lookup(name string) (Pattern, bool) {
	p, ok := r.patterns[name]
	return p, ok
}

// Names returns all registered pattern names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// RegisterSet adds one version of a set. Rules enforced here keep set
// history auditable: versions must be registered in ascending order,
// every member must already be a registered pattern, and a new version
// must retain every member of the previous one (append-only).
func (r *Registry) RegisterSet(name string, version int, members []string) error {
	if version < 1 {
		return fmt.Errorf("set %s: version must be >= 1, got %d", name, version)
	}
	for _, m := range members {
		if _, ok := r.patterns[m]; !ok {
			return fmt.Errorf("set %s v%d: %w", name, version, &UnknownPatternError{Name: m})
		}
	}

	versions := r.sets[name]
	if len(versions) > 0 {
		prev := versions[len(versions)-1]
		if version <= prev.Version {
			return fmt.Errorf("set %s: version %d is not newer than %d", name, version, prev.Version)
		}
		have := make(map[string]bool, len(members))
		for _, m := range members {
			have[m] = true
		}
		for _, m := range prev.Patterns {
			if !have[m] {
				return fmt.Errorf("set %s v%d: drops pattern %s present in v%d", name, version, m, prev.Version)
			}
		}
	}

	r.sets[name] = append(versions, Set{
		Name:     name,
		Version:  version,
		Patterns: append([]string(nil), members...),
	})
	return nil
}

// Sets returns the names of all registered sets, sorted.
func (r *Registry) Sets() []string {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDefinitions returns every registered version of a set in ascending
// order, or nil for an unknown name.
func (r *Registry) SetDefinitions(name string) []Set {
	versions := r.sets[name]
	out := make([]Set, len(versions))
	for i, s := range versions {
		out[i] = Set{
			Name:     s.Name,
			Version:  s.Version,
			Patterns: append([]string(nil), s.Patterns...),
		}
	}
	return out
}

// SetVersions returns the registered versions of a set in ascending order.
func (r *Registry) SetVersions(name string) []int {
	versions := r.sets[name]
	out := make([]int, len(versions))
	for i, s := range versions {
		out[i] = s.Version
	}
	return out
}

// Request names the patterns a run should execute: explicit pattern
// names, set names (resolved at the pinned version, or latest when
// unpinned), or everything in the registry.
type Request struct {
	Names []string
	Sets  []string
	Pins  map[string]int // set name -> pinned version
	All   bool
}

// Resolve expands a request into the concrete ordered list of patterns
// to run. The result follows registration order regardless of how a
// pattern was requested, so scans stay deterministic. Unresolvable
// references fail with UnknownPatternError or UnknownSetError.
func (r *Registry) Resolve(req Request) ([]Pattern, error) {
	selected := make(map[string]bool)

	if req.All {
		for _, name := range r.order {
			selected[name] = true
		}
	}

	for _, name := range req.Names {
		if _, ok := r.patterns[name]; !ok {
			return nil, &UnknownPatternError{Name: name}
		}
		selected[name] = true
	}

	for _, setName := range req.Sets {
		set, err := r.resolveSet(setName, req.Pins[setName])
		if err != nil {
			return nil, err
		}
		for _, member := range set.Patterns {
			if _, ok := r.patterns[member]; !ok {
				// A set can only reference registered patterns, but a
				// stale pin plus upstream removal would surface here.
				return nil, &UnknownPatternError{Name: member}
			}
			selected[member] = true
		}
	}

	out := make([]Pattern, 0, len(selected))
	for _, name := range r.order {
		if selected[name] {
			out = append(out, r.patterns[name])
		}
	}
	return out, nil
}

func (r *Registry) resolveSet(name string, pin int) (Set, error) {
	versions, ok := r.sets[name]
	if !ok || len(versions) == 0 {
		return Set{}, &UnknownSetError{Name: name}
	}
	if pin == 0 {
		return versions[len(versions)-1], nil
	}
	for _, s := range versions {
		if s.Version == pin {
			return s, nil
		}
	}
	return Set{}, &UnknownSetError{Name: name, Version: pin}
}
