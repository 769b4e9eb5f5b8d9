package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Millis epoch milliseconds. The wire sometimes sends these string-encoded,
// 進入時立即正規化為數值。
type Millis int64

// UnmarshalJSON accepts a JSON number, a quoted number, or an RFC3339 string.
func (m *Millis) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*m = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*m = 0
			return nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			*m = Millis(n)
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		*m = Millis(t.UnixMilli())
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = Millis(n)
	return nil
}

// Now current time as Millis
func Now() Millis {
	return Millis(time.Now().UnixMilli())
}

// StringList a list the wire encodes either as a native JSON array or as a
// JSON-encoded string. 進入時立即正規化為陣列，不延後到使用點。
type StringList []string

// UnmarshalJSON decodes both encodings.
func (s *StringList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = nil
		return nil
	}
	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		if raw == "" {
			*s = StringList{}
			return nil
		}
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*s = list
	return nil
}
