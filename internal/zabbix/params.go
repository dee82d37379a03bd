package zabbix

import (
	"encoding/json"
	"fmt"

	"github.com/kidoz/zbxctl/internal/errs"
)

// isID reports whether s looks like a Zabbix id: a non-empty string of
// digits. Everything else is treated as a name.
func isID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitNamesIDs partitions name-or-id arguments. A lone "*" matches
// everything and clears both filters.
func splitNamesIDs(namesOrIDs []string) (names, ids []string) {
	if len(namesOrIDs) == 1 && namesOrIDs[0] == "*" {
		return nil, nil
	}
	for _, s := range namesOrIDs {
		if s == "" || s == "*" {
			continue
		}
		if isID(s) {
			ids = append(ids, s)
		} else {
			names = append(names, s)
		}
	}
	return names, ids
}

// applyNameOrIDFilter adds either an id filter or a wildcard name
// search to params. idsKey is the API's id list parameter
// ("groupids", "hostids", ...); searchField is the object's name
// property ("name", "host", ...).
func applyNameOrIDFilter(params map[string]any, namesOrIDs []string, idsKey, searchField string) {
	names, ids := splitNamesIDs(namesOrIDs)
	if len(ids) > 0 {
		params[idsKey] = ids
	}
	if len(names) > 0 {
		params["search"] = map[string]any{searchField: names}
		params["searchWildcardsEnabled"] = true
		if len(names) > 1 {
			params["searchByAny"] = true
		}
	}
}

// notFound builds the NotFound-kind error single-object getters return
// instead of a nil result.
func notFound(format string, args ...any) error {
	return errs.Newf(errs.KindNotFound, format, args...)
}

// wrapCall turns a lower-level failure into a Call-kind error with a
// short human context. Typed operations use it at their boundary.
func wrapCall(err error, format string, args ...any) error {
	return errs.Wrap(errs.KindCall, fmt.Sprintf(format, args...), err)
}

// bulkIDs extracts the id list a bulk endpoint promised to return
// (e.g. "hostids" from host.create). A missing key or a non-list value
// is a Call-kind error, never a silent empty result.
func bulkIDs(result json.RawMessage, method, key string) ([]string, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(result, &envelope); err != nil {
		return nil, errs.Newf(errs.KindCall, "%s result is not an object", method)
	}

	raw, ok := envelope[key]
	if !ok {
		return nil, errs.Newf(errs.KindCall, "%s result has no %q list", method, key)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, errs.Newf(errs.KindCall, "%s result %q is not a list of id strings", method, key)
	}
	return ids, nil
}

// idRefs builds the [{"<key>": "<id>"}, ...] shape most write
// endpoints take for object references.
func idRefs(key string, ids []string) []map[string]string {
	refs := make([]map[string]string, len(ids))
	for i, id := range ids {
		refs[i] = map[string]string{key: id}
	}
	return refs
}
