package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON column wrappers so gorm can store the embedded collections in a
// single projects row on both Postgres and SQLite.

type MilestoneList []Milestone

func (l MilestoneList) Value() (driver.Value, error) {
	if l == nil {
		l = MilestoneList{}
	}
	return json.Marshal(l)
}

func (l *MilestoneList) Scan(src any) error {
	return scanJSON(src, l)
}

type DocumentList []Document

func (l DocumentList) Value() (driver.Value, error) {
	if l == nil {
		l = DocumentList{}
	}
	return json.Marshal(l)
}

func (l *DocumentList) Scan(src any) error {
	return scanJSON(src, l)
}

type ActivityList []Activity

func (l ActivityList) Value() (driver.Value, error) {
	if l == nil {
		l = ActivityList{}
	}
	return json.Marshal(l)
}

func (l *ActivityList) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
