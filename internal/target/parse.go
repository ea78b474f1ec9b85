package target

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits USER from GROUP in a target token.
const Separator = ":"

var ErrInvalidFormat = errors.New("invalid user/group format")

// Spec is a parsed USER[:GROUP] token. Nothing in it has been looked up.
type Spec struct {
	User     string
	Group    string
	HasGroup bool
}

func (s Spec) String() string {
	if s.HasGroup {
		return s.User + Separator + s.Group
	}
	return s.User
}

// Parse splits token into its user and optional group parts.
func Parse(token string) (Spec, error) {
	parts := strings.Split(token, Separator)
	if parts[0] == "" {
		return Spec{}, fmt.Errorf("%w: %s", ErrInvalidFormat, token)
	}
	switch len(parts) {
	case 1:
		return Spec{User: parts[0]}, nil
	case 2:
		return Spec{User: parts[0], Group: parts[1], HasGroup: true}, nil
	default:
		return Spec{}, fmt.Errorf("%w: %s", ErrInvalidFormat, token)
	}
}
