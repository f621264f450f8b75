package tableam

import (
	"sync"

	"tvheap/internal/visibility"

	"github.com/cockroachdb/errors"
)

var ErrNameTaken = errors.New("tvheap: access method name already registered")

// Registry maps access-method names to routines. Registration is explicit
// and idempotent: re-registering the same routine under the same name is a
// no-op, a different routine under a taken name is an error.
type Registry struct {
	mu       sync.Mutex
	routines map[string]Routine
}

func NewRegistry() *Registry {
	return &Registry{routines: make(map[string]Routine)}
}

func (r *Registry) Register(rt Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.routines[rt.Name()]; ok {
		if existing == rt {
			return nil
		}
		return errors.Wrapf(ErrNameTaken, "name %q", rt.Name())
	}
	r.routines[rt.Name()] = rt
	return nil
}

func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.routines, name)
}

func (r *Registry) Lookup(name string) (Routine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routines[name]
	return rt, ok
}

// Extension owns the variable AM's process lifecycle, mirroring the host's
// extension-loading hook: build the routine once, register it, tear it down
// on close. Init is idempotent behind the latch.
type Extension struct {
	mu     sync.Mutex
	inited bool
	am     *VariableAM
	reg    *Registry
}

func NewExtension(reg *Registry) *Extension {
	return &Extension{reg: reg}
}

// Init builds and registers the variable AM. Calling it again after success
// returns the already-installed routine.
func (e *Extension) Init(base Base, horizons iHorizons, stats *visibility.Stats) (*VariableAM, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inited {
		return e.am, nil
	}

	am := NewVariableAM(base, horizons, stats)
	if err := e.reg.Register(am); err != nil {
		return nil, err
	}
	e.am = am
	e.inited = true
	return am, nil
}

// Close deregisters the AM and resets the latch.
func (e *Extension) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inited {
		return
	}
	e.reg.Deregister(e.am.Name())
	e.am = nil
	e.inited = false
}
