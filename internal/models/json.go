package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON type for flexible storage
type JSON map[string]interface{}

// NewJSON copies m into a JSON value.
func NewJSON(m map[string]interface{}) JSON {
	j := make(JSON, len(m))
	for k, v := range m {
		j[k] = v
	}
	return j
}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported JSON column type")
	}
	return json.Unmarshal(data, j)
}

// String returns the string value for key, or "".
func (j JSON) String(key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the bool value for key.
func (j JSON) Bool(key string) bool {
	v, _ := j[key].(bool)
	return v
}
