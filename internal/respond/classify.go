package respond

import (
	"net/http"
	"sort"

	"github.com/routeline/routeline/internal/domain"
)

// defaultStatusTable maps status codes to the error kinds that classify to
// them. Caller-supplied entries replace a code's kind list outright; they
// are never unioned with the defaults.
func defaultStatusTable() map[int][]domain.Kind {
	return map[int][]domain.Kind{
		http.StatusBadRequest:            {domain.KindSchemaValidation},
		http.StatusRequestTimeout:        {domain.KindTimeout},
		http.StatusRequestEntityTooLarge: {domain.KindPayloadTooLarge},
	}
}

// MergeStatusTable merges a per-route mapping over the default table by
// status code.
func MergeStatusTable(custom map[int][]domain.Kind) map[int][]domain.Kind {
	table := defaultStatusTable()
	for code, kinds := range custom {
		table[code] = kinds
	}
	return table
}

// Classify maps an error to an HTTP status code using the default table
// merged with the optional per-route mapping. Codes are tested in ascending
// order and the first code listing the error's kind wins. Errors matching
// no configured kind, including untagged errors, classify to 500.
func Classify(err error, custom map[int][]domain.Kind) int {
	kind := domain.KindOf(err)
	if kind == "" {
		return http.StatusInternalServerError
	}

	table := MergeStatusTable(custom)

	codes := make([]int, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	for _, code := range codes {
		for _, k := range table[code] {
			if k == kind {
				return code
			}
		}
	}
	return http.StatusInternalServerError
}
