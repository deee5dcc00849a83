package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflationAdjustedCost(t *testing.T) {
	e := NewEconomy()
	// At parity (factor 1024) the cost is factor << 10 >> shift.
	assert.Equal(t, int64(8), e.InflationAdjustedCost(8, 1, ShiftTrackRoad))
	assert.Equal(t, int64(64*16), e.InflationAdjustedCost(64, 5, ShiftVehicle))

	e.InflationFactors[1] = 2048
	assert.Equal(t, int64(16), e.InflationAdjustedCost(8, 1, ShiftTrackRoad))
}

func TestInflateMonthlyCompounds(t *testing.T) {
	e := NewEconomy()
	e.InflateMonthly()
	assert.Equal(t, uint32(1025), e.InflationFactors[0])

	for i := 0; i < 1000; i++ {
		e.InflateMonthly()
	}
	assert.Greater(t, e.InflationFactors[0], uint32(2000))
}

func TestDeliveredCargoPaymentDecay(t *testing.T) {
	e := NewEconomy()
	cargo := &CargoObject{PaymentFactor: 50, PaymentIndex: 6}

	fast := e.DeliveredCargoPayment(cargo, 40, 100, 5)
	slow := e.DeliveredCargoPayment(cargo, 40, 100, 60)
	assert.Greater(t, fast, slow)

	// The age factor floors at 32/65536 no matter how slow the trip.
	glacial := e.DeliveredCargoPayment(cargo, 40, 100, 5000)
	veryLate := e.DeliveredCargoPayment(cargo, 40, 100, 120)
	assert.Equal(t, veryLate, glacial)

	assert.Zero(t, e.DeliveredCargoPayment(cargo, 0, 100, 5))
	assert.Zero(t, e.DeliveredCargoPayment(cargo, 40, 0, 5))
}

func TestDefaultCatalogShape(t *testing.T) {
	c := Default()
	assert.NotEmpty(t, c.Tracks)
	assert.NotEmpty(t, c.Roads)
	assert.NotEmpty(t, c.Vehicles)
	assert.NotEmpty(t, c.Cargo)

	// Every vehicle must reference a valid track type or none at all.
	for _, v := range c.Vehicles {
		if v.TrackType == 0xFF {
			continue
		}
		switch v.Mode {
		case ModeRail:
			assert.Less(t, int(v.TrackType), len(c.Tracks), v.Name)
		case ModeRoad:
			assert.Less(t, int(v.TrackType), len(c.Roads), v.Name)
		}
	}
}
