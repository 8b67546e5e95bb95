package activity

import (
	"encoding/json"
	"time"

	"github.com/buger/jsonparser"
)

// Report describes how a payload was consumed by Parse. It never carries an
// error: malformed input degrades to missing days.
type Report struct {
	Decoded   bool     // payload is a well-formed JSON object
	ListFound bool     // selected list exists and is an object
	Recorded  int      // distinct dates recorded
	Skipped   []string // day keys dropped (bad date, bad entries)
}

// Parse decodes payload and returns the representative category of every
// day in the selected list. The representative is the first entry of a day;
// later entries are ignored. Parse never fails.
func Parse(payload []byte, listID string) Days {
	days, _ := ParseReport(payload, listID)
	return days
}

// ParseReport is Parse plus a summary of what was dropped along the way.
func ParseReport(payload []byte, listID string) (Days, Report) {
	days := make(Days)
	var rep Report

	if !isObject(payload) {
		return days, rep
	}
	rep.Decoded = true

	list, typ, _, err := jsonparser.Get(payload, listID)
	if err != nil || typ != jsonparser.Object {
		return days, rep
	}
	rep.ListFound = true

	// ObjectEach walks keys in document order, so a duplicated date key
	// overwrites the earlier one.
	err = jsonparser.ObjectEach(list, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		k := string(key)
		date, err := time.Parse(DateLayout, k)
		if err != nil || dataType != jsonparser.Array {
			rep.Skipped = append(rep.Skipped, k)
			return nil
		}

		first, typ, _, err := jsonparser.Get(value, "[0]")
		if err == jsonparser.KeyPathNotFoundError {
			// empty day: nothing recorded, not malformed
			return nil
		}
		if err != nil || typ != jsonparser.Object {
			rep.Skipped = append(rep.Skipped, k)
			return nil
		}

		category, err := jsonparser.GetString(first, "category")
		if err != nil {
			category = ""
		}
		days[Day(date)] = category
		return nil
	})
	if err != nil {
		// The payload validated, so this only happens on a list object
		// jsonparser cannot walk; treat it like an undecodable payload.
		return make(Days), Report{Decoded: rep.Decoded}
	}

	rep.Recorded = len(days)
	return days, rep
}

// ListNames returns the list identifiers of payload in document order. A
// malformed payload has no lists.
func ListNames(payload []byte) []string {
	if !isObject(payload) {
		return nil
	}
	var names []string
	_ = jsonparser.ObjectEach(payload, func(key, _ []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType == jsonparser.Object {
			names = append(names, string(key))
		}
		return nil
	})
	return names
}

// Unwrap returns the object stored under rootKey, for tracker files that
// nest their lists (e.g. {"Tracker": {...}}). An empty rootKey, or a payload
// without that key, is returned unchanged.
func Unwrap(payload []byte, rootKey string) []byte {
	if rootKey == "" || !isObject(payload) {
		return payload
	}
	inner, typ, _, err := jsonparser.Get(payload, rootKey)
	if err != nil || typ != jsonparser.Object {
		return payload
	}
	return inner
}

func isObject(payload []byte) bool {
	if !json.Valid(payload) {
		return false
	}
	_, typ, _, err := jsonparser.Get(payload)
	return err == nil && typ == jsonparser.Object
}
