package catalog

// Cargo type slots used by the default catalog. These line up with the
// bits world generation assigns to buildings and industries.
const (
	CargoPassengers = 0
	CargoMail       = 1
	CargoCoal       = 2
	CargoOre        = 3
	CargoGoods      = 4
	CargoFood       = 5
)

// Default returns a small but complete object set: enough variety for
// every transport mode the AI can plan, with distinct speeds and years so
// selection rules have real work to do.
func Default() *Catalog {
	return &Catalog{
		Tracks: []TrackObject{
			{Name: "wooden rail", CostFactor: 8, CostIndex: 1, TunnelCostFactor: 40, CurveSpeed: 40,
				Traits: TraitSmallCurve | TraitSlope | TraitJunction, Mods: []uint8{0}, DesignedYear: 1900, ObsoleteYear: 1960},
			{Name: "steel rail", CostFactor: 11, CostIndex: 1, TunnelCostFactor: 48, CurveSpeed: 60,
				Traits: TraitSmallCurve | TraitLargeCurve | TraitSlope | TraitSteepSlope | TraitJunction,
				Mods:   []uint8{0, 1}, DesignedYear: 1920, ObsoleteYear: 0xFFFF},
		},
		Roads: []RoadObject{
			{Name: "gravel road", CostFactor: 6, CostIndex: 2, MaxSpeed: 30, Flags: RoadShared,
				Traits: TraitSmallCurve | TraitSlope | TraitJunction, DesignedYear: 1900, ObsoleteYear: 0xFFFF},
			{Name: "tarmac road", CostFactor: 9, CostIndex: 2, MaxSpeed: 60, Flags: RoadShared,
				Traits: TraitSmallCurve | TraitSlope | TraitSteepSlope | TraitJunction, DesignedYear: 1925, ObsoleteYear: 0xFFFF},
			{Name: "tram rails", CostFactor: 10, CostIndex: 2, MaxSpeed: 40, Flags: RoadTram,
				Traits: TraitSmallCurve | TraitSlope | TraitJunction, Mods: []uint8{0}, DesignedYear: 1900, ObsoleteYear: 0xFFFF},
		},
		Bridges: []BridgeObject{
			{Name: "wooden bridge", CostFactor: 20, CostIndex: 3, MaxSpeed: 30, MaxHeight: 4},
			{Name: "steel girder bridge", CostFactor: 44, CostIndex: 3, MaxSpeed: 120, MaxHeight: 10},
			{Name: "suspension bridge", CostFactor: 72, CostIndex: 3, MaxSpeed: 160, MaxHeight: 16, DisabledTrack: TraitSmallCurve},
		},
		TrainStations: []TrainStationObject{
			{Name: "wooden platform", CostFactor: 22, CostIndex: 1, DesignedYear: 1900, ObsoleteYear: 1950},
			{Name: "covered platform", CostFactor: 34, CostIndex: 1, DesignedYear: 1930, ObsoleteYear: 0xFFFF},
		},
		RoadStations: []RoadStationObject{
			{Name: "passenger terminus", CostFactor: 18, CostIndex: 2, DesignedYear: 1900, ObsoleteYear: 0xFFFF, RoadEnd: true, PassengerOnly: true},
			{Name: "freight depot", CostFactor: 20, CostIndex: 2, DesignedYear: 1900, ObsoleteYear: 0xFFFF, RoadEnd: true, FreightOnly: true},
			{Name: "drive-through stop", CostFactor: 16, CostIndex: 2, DesignedYear: 1930, ObsoleteYear: 0xFFFF},
		},
		Airports: []AirportObject{
			{Name: "airfield", CostFactor: 120, CostIndex: 4, DesignedYear: 1920, ObsoleteYear: 1955, SizeX: 3, SizeY: 3},
			{Name: "municipal airport", CostFactor: 240, CostIndex: 4, DesignedYear: 1945, ObsoleteYear: 0xFFFF, SizeX: 4, SizeY: 4},
		},
		Docks: []DockObject{
			{Name: "wharf", CostFactor: 60, CostIndex: 4, DesignedYear: 1900, ObsoleteYear: 0xFFFF},
		},
		Signals: []SignalObject{
			{Name: "semaphore signal", CostFactor: 4, CostIndex: 1, DesignedYear: 1900, ObsoleteYear: 1955},
			{Name: "colour light signal", CostFactor: 6, CostIndex: 1, DesignedYear: 1940, ObsoleteYear: 0xFFFF},
		},
		TrackMods: []ModObject{
			{Name: "electrification", CostFactor: 5, CostIndex: 1},
			{Name: "rack rail", CostFactor: 7, CostIndex: 1, RackRail: true},
		},
		RoadMods: []ModObject{
			{Name: "tram wire", CostFactor: 4, CostIndex: 2},
		},
		Vehicles: []VehicleObject{
			{Name: "steam locomotive", Mode: ModeRail, TrackType: 0, Speed: 50, Power: 500,
				CostFactor: 64, CostIndex: 5, RunCostFactor: 12, RunCostIndex: 5,
				CargoTypes: 1 << CargoPassengers, MaxCargo: [2]uint8{40, 0}, DesignedYear: 1900, ObsoleteYear: 1950},
			{Name: "freight locomotive", Mode: ModeRail, TrackType: 0, Speed: 40, Power: 700,
				CostFactor: 72, CostIndex: 5, RunCostFactor: 14, RunCostIndex: 5,
				CargoTypes: 1<<CargoCoal | 1<<CargoOre | 1<<CargoGoods, MaxCargo: [2]uint8{60, 0},
				DesignedYear: 1900, ObsoleteYear: 1955},
			{Name: "electric unit", Mode: ModeRail, TrackType: 1, Speed: 90, Power: 900,
				CostFactor: 110, CostIndex: 5, RunCostFactor: 16, RunCostIndex: 5,
				CargoTypes: 1 << CargoPassengers, MaxCargo: [2]uint8{56, 0}, RequiredMods: 1 << 0,
				MustHavePair: true, DesignedYear: 1935, ObsoleteYear: 0xFFFF},
			{Name: "mail van", Mode: ModeRoad, TrackType: 0xFF, Speed: 35, Power: 80,
				CostFactor: 18, CostIndex: 5, RunCostFactor: 4, RunCostIndex: 5,
				CargoTypes: 1<<CargoMail | 1<<CargoGoods, MaxCargo: [2]uint8{12, 0},
				DesignedYear: 1910, ObsoleteYear: 0xFFFF},
			{Name: "omnibus", Mode: ModeRoad, TrackType: 0xFF, Speed: 45, Power: 110,
				CostFactor: 24, CostIndex: 5, RunCostFactor: 5, RunCostIndex: 5,
				CargoTypes: 1 << CargoPassengers, MaxCargo: [2]uint8{24, 0},
				DesignedYear: 1920, ObsoleteYear: 0xFFFF},
			{Name: "tramcar", Mode: ModeRoad, TrackType: 2, Speed: 35, Power: 120,
				CostFactor: 28, CostIndex: 5, RunCostFactor: 5, RunCostIndex: 5,
				CargoTypes: 1 << CargoPassengers, MaxCargo: [2]uint8{30, 0}, RequiredMods: 1 << 0,
				DesignedYear: 1905, ObsoleteYear: 0xFFFF},
			{Name: "biplane", Mode: ModeAir, TrackType: 0xFF, Speed: 110, Power: 300,
				CostFactor: 160, CostIndex: 5, RunCostFactor: 30, RunCostIndex: 5,
				CargoTypes: 1<<CargoPassengers | 1<<CargoMail, MaxCargo: [2]uint8{10, 4},
				DesignedYear: 1920, ObsoleteYear: 1950},
			{Name: "airliner", Mode: ModeAir, TrackType: 0xFF, Speed: 240, Power: 1200,
				CostFactor: 420, CostIndex: 5, RunCostFactor: 60, RunCostIndex: 5,
				CargoTypes: 1 << CargoPassengers, MaxCargo: [2]uint8{48, 0},
				DesignedYear: 1946, ObsoleteYear: 0xFFFF},
			{Name: "steam coaster", Mode: ModeWater, TrackType: 0xFF, Speed: 20, Power: 400,
				CostFactor: 130, CostIndex: 5, RunCostFactor: 20, RunCostIndex: 5,
				CargoTypes: 1<<CargoCoal | 1<<CargoOre | 1<<CargoGoods | 1<<CargoFood, MaxCargo: [2]uint8{120, 0},
				DesignedYear: 1900, ObsoleteYear: 0xFFFF},
		},
		Cargo: []CargoObject{
			{Name: "passengers", Refittable: false, TransferTime: 80, PaymentFactor: 50, PaymentIndex: 6, UnitSize: 1},
			{Name: "mail", Refittable: false, TransferTime: 70, PaymentFactor: 60, PaymentIndex: 6, UnitSize: 1},
			{Name: "coal", Refittable: true, TransferTime: 130, PaymentFactor: 42, PaymentIndex: 6, UnitSize: 2},
			{Name: "iron ore", Refittable: true, TransferTime: 140, PaymentFactor: 44, PaymentIndex: 6, UnitSize: 2},
			{Name: "goods", Refittable: true, TransferTime: 110, PaymentFactor: 66, PaymentIndex: 6, UnitSize: 2},
			{Name: "food", Refittable: true, TransferTime: 100, PaymentFactor: 58, PaymentIndex: 6, UnitSize: 2},
		},
	}
}
