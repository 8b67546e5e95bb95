package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// MergeFile appends days to listID in the tracker file at path, keeping every
// other list and every existing entry. New entries for a date that already
// has some go after them, so the representative entry of that day is kept.
// A missing file is created.
func MergeFile(path, rootKey, listID string, days DayLog) error {
	root := make(map[string]json.RawMessage)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading tracker file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing tracker file: %w", err)
		}
	}

	lists := root
	if rootKey != "" {
		lists = make(map[string]json.RawMessage)
		if raw, ok := root[rootKey]; ok {
			if err := json.Unmarshal(raw, &lists); err != nil {
				return fmt.Errorf("parsing %s: %w", rootKey, err)
			}
		}
	}

	list := make(map[string][]json.RawMessage)
	if raw, ok := lists[listID]; ok {
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("parsing list %s: %w", listID, err)
		}
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, e := range days[k] {
			raw, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("marshaling entry: %w", err)
			}
			list[k] = append(list[k], raw)
		}
	}

	if lists[listID], err = json.Marshal(list); err != nil {
		return fmt.Errorf("marshaling list: %w", err)
	}
	if rootKey != "" {
		if root[rootKey], err = json.Marshal(lists); err != nil {
			return fmt.Errorf("marshaling %s: %w", rootKey, err)
		}
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tracker file: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
