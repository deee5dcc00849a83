package world

// Identifier types shared across the simulation. They index fixed tables,
// so the zero-adjacent "null" sentinels below mark empty slots rather than
// valid entries.
type (
	CompanyID  uint8
	TownID     uint16
	IndustryID uint16
	StationID  uint16
	VehicleID  uint16
	CargoType  uint8
)

const (
	NullCompanyID  CompanyID  = 0xFF
	NullTownID     TownID     = 0xFFFF
	NullIndustryID IndustryID = 0xFFFF
	NullStationID  StationID  = 0xFFFF
	NullVehicleID  VehicleID  = 0xFFFF
	NullCargoType  CargoType  = 0xFF
)
