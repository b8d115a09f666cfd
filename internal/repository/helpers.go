package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// recordID converts a "table:key" id into the SurrealDB record type so it is
// sent as a record rather than a string that would need parsing server-side.
func recordID(id string) (models.RecordID, error) {
	table, key, ok := model.SplitID(id)
	if !ok {
		return models.RecordID{}, fmt.Errorf("%w: invalid record id %q", database.ErrQuery, id)
	}
	return models.RecordID{Table: table, ID: key}, nil
}

// recordIDs converts every id, failing on the first malformed one.
func recordIDs(ids []string) ([]models.RecordID, error) {
	out := make([]models.RecordID, 0, len(ids))
	for _, id := range ids {
		rid, err := recordID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rid)
	}
	return out, nil
}

// convertSurrealID renders a SurrealDB record id as "table:key".
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		// Handle {"tb": "table", "id": "xxx"} format
		if tb, ok := v["tb"].(string); ok {
			if key, ok := v["id"]; ok {
				return fmt.Sprintf("%s:%v", tb, key)
			}
		}
	}

	// Try JSON marshaling as fallback
	if data, err := json.Marshal(id); err == nil {
		var rid models.RecordID
		if err := json.Unmarshal(data, &rid); err == nil && rid.Table != "" {
			return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
		}
	}

	return ""
}

// extractRecords returns the rows of the first statement in a Query result.
func extractRecords(result []interface{}) []map[string]interface{} {
	if len(result) == 0 {
		return nil
	}

	var rows []interface{}
	if resp, ok := result[0].(map[string]interface{}); ok {
		if data, ok := resp["result"].([]interface{}); ok {
			rows = data
		}
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if m, ok := row.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// asRecord asserts a QueryOne result is a row.
func asRecord(result interface{}) (map[string]interface{}, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result format %T", database.ErrQuery, result)
	}
	return data, nil
}

// getID extracts a record id field as "table:key".
func getID(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok && v != nil {
		return convertSurrealID(v)
	}
	return ""
}

// getIDPtr extracts an optional record id field.
func getIDPtr(m map[string]interface{}, key string) *string {
	if id := getID(m, key); id != "" {
		return &id
	}
	return nil
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts an optional time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	case time.Time:
		return &v
	case models.CustomDateTime:
		t := v.Time
		return &t
	case *models.CustomDateTime:
		if v != nil {
			t := v.Time
			return &t
		}
	}
	return nil
}

// getTimeValue extracts a required time value, zero when absent.
func getTimeValue(m map[string]interface{}, key string) time.Time {
	if t := getTime(m, key); t != nil {
		return t.UTC()
	}
	return time.Time{}
}

// getIDSlice extracts an array of record ids.
func getIDSlice(m map[string]interface{}, key string) []string {
	v, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(v))
	for _, item := range v {
		if id := convertSurrealID(item); id != "" {
			out = append(out, id)
		}
	}
	return out
}
