package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is where the motorhome is on a given day.
type VehicleStatus string

const (
	StatusTravel       VehicleStatus = "travel"
	StatusParking      VehicleStatus = "parking"
	StatusVacationHome VehicleStatus = "vacation_home"
)

// ValidVehicleStatus reports whether s is one of the known statuses.
func ValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case StatusTravel, StatusParking, StatusVacationHome:
		return true
	}
	return false
}

// DailyRecord is the status of the motorhome for one calendar date.
// At most one record exists per date; writes use upsert semantics.
type DailyRecord struct {
	ID        uuid.UUID
	Date      time.Time
	Status    VehicleStatus
	Location  *string // free-text place name, or "lat,lon" from a GPS share
	Latitude  *float64
	Longitude *float64
	CreatedAt time.Time
}

// OdometerRecord is one odometer reading. Readings are append-only;
// the kilometres value is the absolute odometer figure, not a delta.
type OdometerRecord struct {
	ID         uuid.UUID
	Date       time.Time
	Kilometers int
	Notes      *string
	CreatedAt  time.Time

	// KmDiff is the difference against the previous reading, computed by
	// the list query. Zero for the oldest reading.
	KmDiff int
}

// MaintenanceType classifies a maintenance expense entry.
type MaintenanceType string

const (
	MaintenanceRepair      MaintenanceType = "repair"
	MaintenanceImprovement MaintenanceType = "improvement"
	MaintenanceService     MaintenanceType = "maintenance"
)

// ValidMaintenanceType reports whether t is one of the known types.
func ValidMaintenanceType(t MaintenanceType) bool {
	switch t {
	case MaintenanceRepair, MaintenanceImprovement, MaintenanceService:
		return true
	}
	return false
}

// MaintenanceRecord is one maintenance expense entry.
type MaintenanceRecord struct {
	ID          uuid.UUID
	Date        time.Time
	Type        MaintenanceType
	Description string
	Cost        *float64 // nil when no cost was recorded
	CreatedAt   time.Time
}

// FuelRecord is one fuel purchase: total amount paid and price per litre.
type FuelRecord struct {
	ID            uuid.UUID
	Date          time.Time
	Amount        float64
	PricePerLiter float64
	CreatedAt     time.Time
}

// Liters returns the volume purchased, derived from amount and unit price.
func (f FuelRecord) Liters() float64 {
	if f.PricePerLiter == 0 {
		return 0
	}
	return f.Amount / f.PricePerLiter
}
