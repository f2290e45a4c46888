package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cloudbox/internal/common"
)

// Classify maps an HTTP response onto the error taxonomy. The server emits
// several error body shapes (a bare detail string, a {"error": …} object, a
// per-field message map, and a {"errors": {…}} wrapper); all of them are
// normalized here so nothing upstream ever branches on a raw body.
func Classify(statusCode int, body []byte) *common.Error {
	detail := detailMessage(body)

	switch statusCode {
	case http.StatusUnauthorized:
		if detail == "" {
			detail = "authentication required"
		}
		return common.NewError(common.KindUnauthorized, detail)

	case http.StatusForbidden:
		if detail == "" {
			detail = "access denied"
		}
		return common.NewError(common.KindForbidden, detail)

	case http.StatusNotFound:
		if detail == "" {
			detail = "not found"
		}
		return common.NewError(common.KindNotFound, detail)

	case http.StatusConflict:
		if detail == "" {
			detail = "conflict with existing state"
		}
		return common.NewError(common.KindConflict, detail)

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if fields := fieldMessages(body); len(fields) > 0 {
			return common.NewValidationError("invalid input", fields)
		}
		if detail == "" {
			detail = "request rejected by server"
		}
		return common.NewValidationError(detail, nil)
	}

	if statusCode >= 500 {
		return common.NewError(common.KindServerFault, "server error")
	}
	// Unknown 4xx (or anything else unexpected): surface a generic message
	// instead of failing.
	return common.NewError(common.KindServerFault,
		fmt.Sprintf("unexpected response from server (status %d)", statusCode))
}

// NetworkUnreachable is the classification for a request that produced no
// response at all.
func NetworkUnreachable() *common.Error {
	return common.NewError(common.KindNetworkUnreachable, "server unreachable")
}

// detailMessage pulls a single human-readable message out of an error body,
// trying the keys the server is known to use.
func detailMessage(body []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// fieldMessages flattens a per-field error body into a field→message map.
// Each field's value may be a list of messages or a single string; wrapper
// keys ("errors") are descended into, bookkeeping keys are skipped.
func fieldMessages(body []byte) map[string]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	if wrapped, ok := obj["errors"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(wrapped, &inner); err == nil {
			obj = inner
		}
	}

	fields := make(map[string]string)
	for key, raw := range obj {
		switch key {
		case "success", "error", "detail", "message":
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			fields[key] = strings.Join(list, "; ")
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			fields[key] = s
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
