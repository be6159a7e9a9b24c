// internal/datasource/rows.go
package datasource

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// scanRows drains a result set into one map per row, keyed by column name.
// NULL columns are dropped so that a missing value and a missing column look
// the same to the decoders below.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if values[i] == nil {
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return results, nil
}

// getString returns the column as a trimmed string, empty when absent.
// Drivers may surface text columns as []byte.
func getString(row map[string]interface{}, col string) string {
	v, ok := row[col]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", s))
	}
}

// getInt returns the column as an int. Numeric exports arrive as int64,
// float64 or decimal strings depending on the driver.
func getInt(row map[string]interface{}, col string) (int, bool) {
	v, ok := row[col]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	case []byte:
		return parseInt(string(n))
	case string:
		return parseInt(n)
	default:
		return 0, false
	}
}

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// getDate returns the column as a calendar date. DATE columns arrive as
// time.Time; string exports use the given layout.
func getDate(row map[string]interface{}, col, layout string) (*time.Time, error) {
	v, ok := row[col]
	if !ok {
		return nil, nil
	}
	switch d := v.(type) {
	case time.Time:
		t := truncateToDay(d)
		return &t, nil
	case []byte:
		return parseDate(string(d), layout)
	case string:
		return parseDate(d, layout)
	default:
		return nil, fmt.Errorf("column %s: unsupported date type %T", col, v)
	}
}

func parseDate(s, layout string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, err
	}
	t = truncateToDay(t)
	return &t, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
