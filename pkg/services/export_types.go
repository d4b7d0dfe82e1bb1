package services

import (
	"fmt"
	"strconv"
	"strings"
)

// ExportResult is the envelope handed back to the API layer for string
// exports.
type ExportResult struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// dateOnly truncates an ISO-8601 timestamp string to its YYYY-MM-DD date
// part. Shorter or empty values pass through unchanged; a malformed date
// degrades to whatever was supplied rather than failing the export.
func dateOnly(iso string) string {
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}

// escapeCSVField applies RFC4180-style escaping to one field: values
// containing a comma, quote, or newline are wrapped in quotes with embedded
// quotes doubled. Everything else passes through verbatim.
func escapeCSVField(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// formatScalar renders a row value for CSV output. Nil renders as an empty
// field; floats drop trailing zeros so counts and coordinates stay readable.
func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
