package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kdb "github.com/opst/grammarfab/pkg/db"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return kdb.ErrMissing
}

// data conflicts with existing one.
type Conflict struct {
	Table      string
	Constraint string
	Cause      error
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflict in %s (%s): %v", c.Table, c.Constraint, c.Cause)
}

func (c Conflict) Unwrap() []error {
	return []error{kdb.ErrConflict, c.Cause}
}

// AsConflict translates unique violation into Conflict.
//
// Other errors are returned as is.
func AsConflict(err error) error {
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) || pgerr.Code != pgerrcode.UniqueViolation {
		return err
	}
	return Conflict{Table: pgerr.TableName, Constraint: pgerr.ConstraintName, Cause: err}
}
