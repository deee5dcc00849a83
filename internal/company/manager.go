package company

import "github.com/talgya/tycoon-world/internal/world"

// Pacing threshold by aggressiveness rating (1..9). A more aggressive
// competitor waits fewer ticks between paced construction steps.
var aggressivenessPace = [9]uint16{25, 20, 15, 11, 8, 5, 3, 2, 1}

// PacingThreshold returns the construction pacing threshold for the
// company's aggressiveness rating.
func (c *Company) PacingThreshold() uint16 {
	i := int(c.Aggressiveness) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(aggressivenessPace) {
		i = len(aggressivenessPace) - 1
	}
	return aggressivenessPace[i]
}

// Affordability scaling factor by intelligence rating. Dim competitors
// over-value revenue; very sharp ones demand a plan pay for itself twice
// over, and the top ratings never approve a marginal plan.
var intelligenceFactor = [12]int64{1, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 0}

// IntelligenceFactor returns the affordability scaling factor for the
// company's intelligence rating.
func (c *Company) IntelligenceFactor() int64 {
	i := int(c.Intelligence)
	if i >= len(intelligenceFactor) {
		i = len(intelligenceFactor) - 1
	}
	return intelligenceFactor[i]
}

// Manager owns all companies in deterministic id order.
type Manager struct {
	companies []*Company
	MaxLoan   int64
}

// NewManager creates an empty company registry.
func NewManager(maxLoan int64) *Manager {
	return &Manager{MaxLoan: maxLoan}
}

// Add registers a company.
func (m *Manager) Add(c *Company) {
	m.companies = append(m.companies, c)
}

// Get returns the company with the given id, or nil.
func (m *Manager) Get(id world.CompanyID) *Company {
	for _, c := range m.companies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// All returns the companies in registration order.
func (m *Manager) All() []*Company {
	return m.companies
}

// Remove deletes a company from the registry.
func (m *Manager) Remove(id world.CompanyID) {
	for i, c := range m.companies {
		if c.ID == id {
			m.companies = append(m.companies[:i], m.companies[i+1:]...)
			return
		}
	}
}

// CanAfford reports whether a company can pay the given cost, counting
// remaining loan headroom.
func (m *Manager) CanAfford(id world.CompanyID, cost int64) bool {
	c := m.Get(id)
	if c == nil {
		return false
	}
	return c.Funds+(m.MaxLoan-c.Loan) >= cost
}

// Charge deducts a cost from a company (negative cost credits it) and
// updates the bankrupt flag.
func (m *Manager) Charge(id world.CompanyID, cost int64) {
	c := m.Get(id)
	if c == nil {
		return
	}
	c.Funds -= cost
	if c.Funds+(m.MaxLoan-c.Loan) < 0 {
		c.Flags |= StatusBankrupt
	} else {
		c.Flags &^= StatusBankrupt
	}
}

// EnsureFunding tops a company up to cover an upcoming outlay by drawing
// on its loan, within the loan limit. Reports whether the outlay is now
// covered.
func (m *Manager) EnsureFunding(id world.CompanyID, amount int64) bool {
	c := m.Get(id)
	if c == nil {
		return false
	}
	if c.Funds >= amount {
		return true
	}
	needed := amount - c.Funds
	if c.Loan+needed > m.MaxLoan {
		return false
	}
	c.Loan += needed
	c.Funds += needed
	return true
}
