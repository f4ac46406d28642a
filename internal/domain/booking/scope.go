package booking

import "github.com/HubFlowSystems/appointments-core/internal/models"

// BlockScope makes the "nil staff means everyone" rule on BlockedTime explicit.
type BlockScope struct {
	staffID *uint
}

func GlobalScope() BlockScope {
	return BlockScope{}
}

func ScopedToStaff(staffID uint) BlockScope {
	return BlockScope{staffID: &staffID}
}

// ScopeOf derives the scope of a blocked interval.
func ScopeOf(b *models.BlockedTime) BlockScope {
	if b.StaffID == nil {
		return GlobalScope()
	}
	return ScopedToStaff(*b.StaffID)
}

func (s BlockScope) IsGlobal() bool {
	return s.staffID == nil
}

// AppliesTo reports whether the scope blocks the given staff member. A global
// scope blocks everyone; a staff scope blocks only that staff member. For an
// unassigned booking (staffID == nil) only global scopes apply.
func (s BlockScope) AppliesTo(staffID *uint) bool {
	if s.staffID == nil {
		return true
	}
	return staffID != nil && *s.staffID == *staffID
}
