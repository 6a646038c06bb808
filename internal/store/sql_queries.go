package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/ashenlk/tenant-keeper/models"
)

// Placeholders are written in ascending order without reuse so the same
// query text binds correctly under both pgx ($N is positional) and SQLite
// ($N is a named parameter whose index follows occurrence order).
const (
	nextSequenceNumber = `INSERT INTO entity_sequences (entity_type, last_number)
	VALUES ($1, 1)
	ON CONFLICT (entity_type) DO UPDATE SET last_number = entity_sequences.last_number + 1
	RETURNING last_number;`

	ensureSequenceFloor = `INSERT INTO entity_sequences (entity_type, last_number)
	VALUES ($1, $2)
	ON CONFLICT (entity_type) DO UPDATE SET last_number = excluded.last_number
	WHERE entity_sequences.last_number < excluded.last_number;`

	createBuilding = `INSERT INTO buildings (id, building_id, name, location, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);`

	getBuildingByDisplayID = `SELECT id, building_id, name, location, is_active, created_at, updated_at
	FROM buildings
	WHERE building_id = $1;`

	latestBuildingDisplayID = `SELECT building_id FROM buildings ORDER BY created_at DESC LIMIT 1;`

	setBuildingActive = `UPDATE buildings SET is_active = $1, updated_at = $2 WHERE building_id = $3;`

	createRoom = `INSERT INTO rooms (id, room_id, building_id, name, description, facilities, is_active, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	getRoomByDisplayID = `SELECT id, room_id, building_id, name, description, facilities, is_active, version, created_at, updated_at
	FROM rooms
	WHERE room_id = $1;`

	getRoomPrices = `SELECT price, start_date, end_date
	FROM room_prices
	WHERE room_id = $1
	ORDER BY start_date, (end_date IS NULL);`

	insertPriceInterval = `INSERT INTO room_prices (room_id, price, start_date, end_date)
	VALUES ($1, $2, $3, $4);`

	bumpRoomVersion = `UPDATE rooms SET version = version + 1, updated_at = $1
	WHERE room_id = $2 AND version = $3;`

	countOpenPriceIntervals = `SELECT COUNT(*) FROM room_prices WHERE room_id = $1 AND end_date IS NULL;`

	closeOpenPriceInterval = `UPDATE room_prices SET end_date = $1
	WHERE room_id = $2 AND end_date IS NULL;`

	latestRoomDisplayID = `SELECT room_id FROM rooms ORDER BY created_at DESC LIMIT 1;`

	setRoomActive = `UPDATE rooms SET is_active = $1, updated_at = $2 WHERE room_id = $3;`

	createTenant = `INSERT INTO tenants (id, tenant_id, full_name, calling_name, nic_no, nic_no_hash, contact_no, contact_no_hash, address, joined_date, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	getTenantByDisplayID = `SELECT id, tenant_id, full_name, calling_name, nic_no, nic_no_hash, contact_no, contact_no_hash, address, joined_date, is_active, created_at, updated_at
	FROM tenants
	WHERE tenant_id = $1;`

	latestTenantDisplayID = `SELECT tenant_id FROM tenants ORDER BY created_at DESC LIMIT 1;`

	setTenantActive = `UPDATE tenants SET is_active = $1, updated_at = $2 WHERE tenant_id = $3;`

	createFacility = `INSERT INTO room_facilities (id, facility_id, name, description, price, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	getFacilityByDisplayID = `SELECT id, facility_id, name, description, price, is_active, created_at, updated_at
	FROM room_facilities
	WHERE facility_id = $1;`

	latestFacilityDisplayID = `SELECT facility_id FROM room_facilities ORDER BY created_at DESC LIMIT 1;`

	setFacilityActive = `UPDATE room_facilities SET is_active = $1, updated_at = $2 WHERE facility_id = $3;`

	createMeter = `INSERT INTO meters (id, meter_id, room_id, installed_at, removed_at, start_reading, end_reading, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	closeMeter = `UPDATE meters SET end_reading = $1, removed_at = $2, updated_at = $3
	WHERE meter_id = $4 AND removed_at IS NULL;`

	latestMeterDisplayID = `SELECT meter_id FROM meters ORDER BY created_at DESC LIMIT 1;`

	createMainMeter = `INSERT INTO main_meters (id, main_meter_id, meter_type, building_id, meter_no, installed_at, removed_at, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	latestMainMeterDisplayID = `SELECT main_meter_id FROM main_meters ORDER BY created_at DESC LIMIT 1;`

	setMainMeterActive = `UPDATE main_meters SET is_active = $1, updated_at = $2 WHERE main_meter_id = $3;`
)

// queryBuilder is the shared squirrel builder. Dollar placeholders keep the
// generated SQL aligned with the constant queries above.
var queryBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// normalizeFilter applies paging defaults: page 1, page size 10, capped at
// 100 to bound result sets.
func normalizeFilter(filter models.ListFilter) models.ListFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return filter
}

// buildListQuery assembles a paginated SELECT plus its companion COUNT query
// for one table. Search matches are case-insensitive prefix-free LIKEs over
// searchColumn; conds narrow by exact match.
func buildListQuery(table string, columns []string, searchColumn string, filter models.ListFilter, conds sq.Eq) (listSQL string, listArgs []any, countSQL string, countArgs []any, err error) {
	where := sq.And{}
	if len(conds) > 0 {
		where = append(where, conds)
	}
	if filter.Search != "" && searchColumn != "" {
		where = append(where, sq.Expr("LOWER("+searchColumn+") LIKE LOWER(?)", "%"+filter.Search+"%"))
	}

	list := queryBuilder.Select(columns...).From(table)
	count := queryBuilder.Select("COUNT(*)").From(table)
	if len(where) > 0 {
		list = list.Where(where)
		count = count.Where(where)
	}

	list = list.
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	listSQL, listArgs, err = list.ToSql()
	if err != nil {
		return "", nil, "", nil, err
	}

	countSQL, countArgs, err = count.ToSql()
	if err != nil {
		return "", nil, "", nil, err
	}

	return listSQL, listArgs, countSQL, countArgs, nil
}
