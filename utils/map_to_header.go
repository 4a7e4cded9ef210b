package utils

import (
	"net/http"
	"strings"
)

// MapToHeader converts configured header pairs into canonical http.Header
// entries, skipping blank names.
func MapToHeader(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		h.Set(k, strings.TrimSpace(v))
	}
	return h
}
