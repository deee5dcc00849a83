package ai

import (
	"github.com/talgya/tycoon-world/internal/company"
)

// AccrueMonthly settles one month of operations for a company: every
// route with vehicles in service earns a share of its projected revenue
// and pays its running costs. Receipts feed the profitability review;
// a route that keeps losing here is what the review retires.
func (ctx *Context) AccrueMonthly(c *company.Company) {
	for i := range c.Thoughts {
		t := &c.Thoughts[i]
		if t.Type == company.NullThoughtType || t.NumVehicles == 0 {
			continue
		}
		revenue := ctx.estimateThoughtRevenue(t) / 12
		if t.TargetVehicles > 0 {
			revenue = revenue * int64(t.NumVehicles) / int64(t.TargetVehicles)
		}
		t.GrossReceipts += revenue
		ctx.Companies.Charge(c.ID, t.RunningCost-revenue)
	}
}
