package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when an insert or update would break
	// the uniqueness of userId, email or username.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrNoUserWasFound is returned by updates that matched no user.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrUnknownField is returned when a projection or sort key does not name
	// a user field.
	ErrUnknownField = errors.New("unknown user field")

	// ErrUnsupportedDSN is returned when the database URI scheme selects no
	// known backend.
	ErrUnsupportedDSN = errors.New("unsupported database uri")
)

// Low-level database operation errors. These wrap the driver error when an
// operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRows is returned when decoding result rows or documents fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrConnecting is returned when the store cannot be reached at startup.
	ErrConnecting = errors.New("error connecting to database")
)
