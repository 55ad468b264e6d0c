package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyErrorUnwrap(t *testing.T) {
	err := &DependencyError{Refs: []Ref{{ID: "1", Name: "Book"}}}
	assert.True(t, errors.Is(err, ErrDependenciesExist))
}

func TestDependencyErrorMessage(t *testing.T) {
	err := &DependencyError{Refs: []Ref{{ID: "1", Name: "Book"}, {ID: "2", Name: "Author"}}}
	assert.Equal(t, "cannot delete: still referenced by Book, Author", err.Error())

	empty := &DependencyError{}
	assert.Equal(t, "cannot delete: dependencies exist", empty.Error())
}
