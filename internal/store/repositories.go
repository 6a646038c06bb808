package store

import (
	"github.com/ashenlk/tenant-keeper/internal/logger"
)

// NewRepositories wires every repository over one shared database
// connection.
func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	logger.Debug().Msg("creating repositories")
	return &Repositories{
		Sequences:  NewSequenceRepository(db, logger),
		Buildings:  NewBuildingRepository(db, logger),
		Rooms:      NewRoomRepository(db, logger),
		Tenants:    NewTenantRepository(db, logger),
		Facilities: NewFacilityRepository(db, logger),
		Meters:     NewMeterRepository(db, logger),
	}
}
