package restapi

import (
	"encoding/json"
	"net/http"

	"github.com/tdkhoa/sodiem/core"
)

// parseAPIError lifts the backend's error payload into a structured
// *core.APIError. The API reports failures three ways: a {"detail": "..."}
// object, a {"field": ["msg", ...]} validation map, or a bare ["msg"] list.
func parseAPIError(status int, body []byte) *core.APIError {
	apiErr := &core.APIError{Status: status}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(body, &asMap); err == nil {
		if detail, ok := asMap["detail"]; ok {
			var msg string
			if json.Unmarshal(detail, &msg) == nil {
				apiErr.Message = msg
				return apiErr
			}
		}
		fields := make(map[string]string)
		for field, raw := range asMap {
			var msgs []string
			if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
				fields[field] = msgs[0]
				continue
			}
			var msg string
			if json.Unmarshal(raw, &msg) == nil {
				fields[field] = msg
			}
		}
		if len(fields) > 0 {
			apiErr.Fields = fields
			return apiErr
		}
	}

	var asList []string
	if err := json.Unmarshal(body, &asList); err == nil && len(asList) > 0 {
		apiErr.Message = asList[0]
		return apiErr
	}

	apiErr.Message = http.StatusText(status)
	return apiErr
}
