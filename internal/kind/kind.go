// Package kind resolves dataset-kind labels to the canonical names used in
// warehouse table names.
package kind

import (
	"fmt"
	"strings"

	"propensity/pkg/errors"
)

// Kind identifies which split of the propensity dataset a table belongs to.
type Kind int

const (
	// Unknown is the zero value and never produced by Resolve.
	Unknown Kind = iota
	Train
	Validation
)

// ErrInvalidKind matches any error returned by Resolve for an unrecognized label.
var ErrInvalidKind = errors.Sentinel(errors.ErrCodeInvalidKind, "invalid dataset kind")

var labels = map[string]Kind{
	"train":      Train,
	"test":       Validation,
	"validation": Validation,
}

// String returns the canonical table-name token.
func (k Kind) String() string {
	switch k {
	case Train:
		return "train"
	case Validation:
		return "val"
	default:
		return "unknown"
	}
}

// Valid reports whether k is Train or Validation.
func (k Kind) Valid() bool {
	return k == Train || k == Validation
}

// Resolve maps a user-supplied label to its Kind. Labels match exactly.
func Resolve(label string) (Kind, error) {
	if k, ok := labels[label]; ok {
		return k, nil
	}
	return Unknown, errors.New(errors.ErrCodeInvalidKind, fmt.Sprintf("unknown dataset kind %q", label)).
		WithContext("label", label).
		WithSuggestions(fmt.Sprintf("Use one of: %s", strings.Join(Labels(), ", ")))
}

// Labels lists the accepted labels.
func Labels() []string {
	return []string{"train", "test", "validation"}
}
