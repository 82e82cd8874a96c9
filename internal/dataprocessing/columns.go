package dataprocessing

import (
	"strings"

	apperrors "attendcli/internal/errors"
)

// CanonicalField identifies one of the four columns the pipeline needs.
type CanonicalField string

const (
	FieldName       CanonicalField = "name"
	FieldEmployeeID CanonicalField = "employee_id"
	FieldDateTime   CanonicalField = "datetime"
	FieldPunchType  CanonicalField = "punch_type"
)

// columnKeywords is the ordered resolution table. For each canonical field
// the headers are scanned in file order and the first header containing any
// keyword wins; keyword order within a list does not matter.
var columnKeywords = []struct {
	Field    CanonicalField
	Keywords []string
}{
	{FieldName, []string{"姓名", "名字", "name"}},
	{FieldEmployeeID, []string{"考勤", "號碼", "id", "員工", "工號"}},
	{FieldDateTime, []string{"日期時間", "時間", "datetime", "date"}},
	{FieldPunchType, []string{"簽", "check", "status"}},
}

// ColumnMapping maps each canonical field to a header position.
type ColumnMapping map[CanonicalField]int

// ResolveColumns maps free-text CSV headers onto the canonical fields.
// Resolution is a pure function of the header sequence; row values are
// never consulted. A field with no matching header aborts the whole run.
func ResolveColumns(headers []string) (ColumnMapping, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := make(ColumnMapping, len(columnKeywords))
	for _, entry := range columnKeywords {
		idx := -1
		for i, header := range normalized {
			if containsAnyKeyword(header, entry.Keywords) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &apperrors.MissingColumnError{Field: string(entry.Field)}
		}
		mapping[entry.Field] = idx
	}

	return mapping, nil
}

func containsAnyKeyword(header string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(header, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
