package data

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

// json encodes the sub-documents kept in JSONB columns.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func documentValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanDocument(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("data: cannot scan %T into a document", src)
	}
}

// IDList is a list of references stored in a uuid[] column.
type IDList []uuid.UUID

func (l IDList) Value() (driver.Value, error) {
	ss := make(pq.StringArray, len(l))
	for i, id := range l {
		ss[i] = id.String()
	}
	return ss.Value()
}

func (l *IDList) Scan(src any) error {
	var ss pq.StringArray
	if err := ss.Scan(src); err != nil {
		return err
	}
	ids := make(IDList, 0, len(ss))
	for _, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}

// Contains reports whether id is part of the list.
func (l IDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
