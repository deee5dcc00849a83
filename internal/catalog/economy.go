package catalog

// Cost shift exponents per expenditure category. Object cost factors are
// small integers; the inflation-adjusted cost shifts the scaled factor
// right by the category exponent. Exact values are game balance.
const (
	ShiftVehicle       = 6
	ShiftAirport       = 6
	ShiftDock          = 7
	ShiftStation       = 8
	ShiftTrackRoad     = 10
	ShiftRunningCost   = 10
	ShiftBuildingClear = 8
	ShiftTreeClear     = 12
)

// Economy provides inflation-adjusted cost lookups. Each cost index has an
// inflation factor (fixed point, 1024 = parity) that drifts over a long
// game; the AI only ever reads it.
type Economy struct {
	InflationFactors [32]uint32
}

// NewEconomy returns an economy with all factors at parity.
func NewEconomy() *Economy {
	e := &Economy{}
	for i := range e.InflationFactors {
		e.InflationFactors[i] = 1024
	}
	return e
}

// InflateMonthly applies one month of drift to every inflation index.
// Roughly 0.1% per month, compounding.
func (e *Economy) InflateMonthly() {
	for i := range e.InflationFactors {
		e.InflationFactors[i] += e.InflationFactors[i] >> 10
	}
}

// InflationAdjustedCost converts an object cost factor into money.
func (e *Economy) InflationAdjustedCost(costFactor int32, costIndex uint8, shift uint) int64 {
	return int64(costFactor) * int64(e.InflationFactors[costIndex&31]) >> shift
}

// DeliveredCargoPayment estimates the payment for delivering units of a
// cargo over a tile distance taking a number of days. Payment decays with
// delivery time.
func (e *Economy) DeliveredCargoPayment(cargo *CargoObject, numUnits int, distanceTiles int32, numDays int) int64 {
	if numUnits <= 0 || distanceTiles <= 0 {
		return 0
	}
	base := e.InflationAdjustedCost(cargo.PaymentFactor, cargo.PaymentIndex, ShiftStation)
	ageFactor := int64(256 - 2*numDays)
	if ageFactor < 32 {
		ageFactor = 32
	}
	return base * int64(numUnits) * int64(distanceTiles) * ageFactor / (256 * 256)
}
