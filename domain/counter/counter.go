package counter

import (
	"github.com/x-xyz/goguard/base/ctx"
)

// Ref is a reference to a guarded counter. It is checked by the service
// before the counter is touched, so a nil, foreign or forged reference fails
// with domain.ErrInvalidReference instead of reaching the value.
type Ref struct {
	id   string
	cell *int64
}

// NewRef returns a reference carrying only the counter id. It is what a
// caller on the other side of a process boundary can hold.
func NewRef(id string) *Ref {
	return &Ref{id: id}
}

// BindRef returns a reference to the in-process cell owned by counter id.
func BindRef(id string, cell *int64) *Ref {
	return &Ref{id: id, cell: cell}
}

// ID of the referenced counter, empty for a nil ref.
func (r *Ref) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// Valid reports whether r names a counter at all.
func (r *Ref) Valid() bool {
	return r != nil && r.id != ""
}

// Resolves reports whether r refers to exactly the counter id stored at cell.
func (r *Ref) Resolves(id string, cell *int64) bool {
	return r.Valid() && cell != nil && r.id == id && r.cell == cell
}

// Usecase is the guarded counter service.
type Usecase interface {
	// Ref returns the reference callers pass to Decrement and Load.
	Ref() *Ref
	// Decrement atomically subtracts one from the referenced counter. A nil
	// error is the only success result.
	Decrement(c ctx.Ctx, ref *Ref) error
	// Load returns the current value of the referenced counter.
	Load(c ctx.Ctx, ref *Ref) (int64, error)
}

// Observer is implemented by services that track critical-section occupancy.
type Observer interface {
	// Occupancy returns how many callers are inside the critical section now
	// and the most that ever were at once.
	Occupancy() (current int, peak int)
}

// Factory creates a counter service seeded with initial.
type Factory func(c ctx.Ctx, initial int64) (Usecase, error)
