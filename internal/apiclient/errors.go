package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// NetworkErrorMessage is shown whenever no response was received at all.
const NetworkErrorMessage = "Network error. Please check your connection."

// APIError is a failed upstream call with the message already normalized.
// StatusCode is 0 when the failure was transport-level.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func netError() *APIError {
	return &APIError{StatusCode: 0, Message: NetworkErrorMessage}
}

// NormalizeErrorBody turns whatever error payload the gateway produced into a
// single human-readable string. Checked in order: plain-string body,
// {error: string}, {error: {details|message|type}} with nested objects
// flattened into "field: value" lines, {message}, {detail}, then a JSON dump.
// This is the only place upstream error shapes are interpreted.
func NormalizeErrorBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		// Not JSON at all, the body is the message.
		return string(trimmed)
	}

	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if msg := normalizeObject(t); msg != "" {
			return msg
		}
	}

	dump, err := json.Marshal(v)
	if err != nil {
		return string(trimmed)
	}
	return string(dump)
}

func normalizeObject(obj map[string]interface{}) string {
	if e, ok := obj["error"]; ok {
		switch et := e.(type) {
		case string:
			return et
		case map[string]interface{}:
			if d, ok := et["details"]; ok {
				if msg := flatten("", d); msg != "" {
					return msg
				}
			}
			if m, ok := et["message"].(string); ok && m != "" {
				return m
			}
			if ty, ok := et["type"].(string); ok && ty != "" {
				return ty
			}
			if msg := flatten("", et); msg != "" {
				return msg
			}
		}
	}
	if m, ok := obj["message"].(string); ok && m != "" {
		return m
	}
	if d, ok := obj["detail"].(string); ok && d != "" {
		return d
	}
	return ""
}

// flatten renders a nested error value as "field: value" lines. Map keys are
// sorted so the output is stable; list values (field -> messages) are joined
// with commas.
func flatten(prefix string, v interface{}) string {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var lines []string
		for _, k := range keys {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			if line := flatten(path, t[k]); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		if prefix == "" {
			return strings.Join(parts, ", ")
		}
		return prefix + ": " + strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		if prefix == "" {
			return fmt.Sprint(t)
		}
		return prefix + ": " + fmt.Sprint(t)
	}
}
