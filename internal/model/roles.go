package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DefaultRole is assigned when a user is created without explicit roles.
const DefaultRole = "Employee"

// Roles is a list of role tags stored as a JSON column.
type Roles []string

// Value implements driver.Valuer.
func (r Roles) Value() (driver.Value, error) {
	if r == nil {
		r = Roles{}
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal roles: %w", err)
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (r *Roles) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = Roles{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("scan roles: unsupported type %T", src)
	}
}

// Contains reports whether the given role tag is present.
func (r Roles) Contains(role string) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}
