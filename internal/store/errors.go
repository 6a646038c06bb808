package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDisplayIDTaken is returned when an INSERT collides on a display-id
	// unique index. Under the atomic counter this only happens when two
	// allocations race at the boundary; the caller retries with a fresh
	// allocation.
	ErrDisplayIDTaken = errors.New("display id already exists")

	// ErrNICAlreadyExists is returned when a tenant write collides on the
	// NIC fingerprint index: another active tenant already carries the same
	// NIC number.
	ErrNICAlreadyExists = errors.New("nic number already exists")

	// ErrContactAlreadyExists is returned when a tenant write collides on
	// the contact-number fingerprint index.
	ErrContactAlreadyExists = errors.New("contact number already exists")

	// ErrRoomNameTaken is returned when a room with the same name already
	// exists in the target building.
	ErrRoomNameTaken = errors.New("room with same name already exists in this building")

	// ErrFacilityNameTaken is returned when a facility with the same name
	// already exists.
	ErrFacilityNameTaken = errors.New("facility name already exists")

	// ErrMeterNoTaken is returned when a main meter with the same utility
	// company meter number already exists.
	ErrMeterNoTaken = errors.New("meter number already exists")

	// ErrNotFound is returned when a query targets an entity that does not
	// exist in the database.
	ErrNotFound = errors.New("entity not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the room version read by the caller no longer matches the stored
	// version, meaning a concurrent price update won the race.
	ErrVersionConflict = errors.New("room version conflict occurred")

	// ErrNoOpenPriceInterval is returned when a price mutation finds no open
	// interval to close. The ledger is corrupt and the operation aborts.
	ErrNoOpenPriceInterval = errors.New("no open price interval found")

	// ErrMultipleOpenPriceIntervals is returned when a price mutation finds
	// more than one open interval. The ledger is corrupt and the operation
	// aborts rather than guessing which interval to close.
	ErrMultipleOpenPriceIntervals = errors.New("multiple open price intervals found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
