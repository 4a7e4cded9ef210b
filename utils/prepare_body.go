package utils

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"strings"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// PrepareBody encodes body for the given content type. Parameters such as
// "; charset=utf-8" are accepted and dropped from the returned content type.
// Form values that are string slices become repeated fields.
func PrepareBody(body map[string]interface{}, bodyType string) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	mediaType, _, err := mime.ParseMediaType(bodyType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(bodyType))
	}

	switch mediaType {
	case ContentTypeJSON:
		buf, err := json.Marshal(body)
		return buf, ContentTypeJSON, err
	case ContentTypeForm:
		vals := url.Values{}
		for k, v := range body {
			switch typed := v.(type) {
			case []string:
				vals[k] = append(vals[k], typed...)
			case nil:
				vals.Set(k, "")
			default:
				vals.Set(k, fmt.Sprintf("%v", typed))
			}
		}
		return []byte(vals.Encode()), ContentTypeForm, nil
	default:
		return nil, "", fmt.Errorf("unsupported body_type: %s", bodyType)
	}
}
