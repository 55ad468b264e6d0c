package types

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors returned by repositories and the management layer.
// Absent entities are not errors: Get operations return a nil item instead.
var (
	// ErrNameDescriptionNotUnique reports a (name, description) collision
	// on a definition.
	ErrNameDescriptionNotUnique = errors.New("name and description are not unique")

	// ErrDependenciesExist reports a delete blocked by rows that still
	// reference the item.
	ErrDependenciesExist = errors.New("dependencies exist")

	// ErrUnauthorized reports a caller that the session layer has not
	// approved. The core only propagates it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal wraps unexpected store failures.
	ErrInternal = errors.New("internal error")
)

// Ref is an (id, display name) pair used to populate selection widgets and
// dependency reports.
type Ref struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// DependencyError is an ErrDependenciesExist enriched with the items that
// still reference the one being deleted. Refs may be empty when the
// enumeration query itself failed; the delete is rejected either way.
type DependencyError struct {
	Refs []Ref
}

func (e *DependencyError) Error() string {
	if len(e.Refs) == 0 {
		return "cannot delete: dependencies exist"
	}
	names := make([]string, len(e.Refs))
	for i, r := range e.Refs {
		names[i] = r.Name
	}
	return fmt.Sprintf("cannot delete: still referenced by %s", strings.Join(names, ", "))
}

// Unwrap lets errors.Is match DependencyError against ErrDependenciesExist.
func (e *DependencyError) Unwrap() error {
	return ErrDependenciesExist
}
