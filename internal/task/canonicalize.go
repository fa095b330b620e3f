package task

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Canonicalize returns a canonical JSON representation of a task
// with stable ordering for consistent hashing.
// Status is excluded: a status transition is execution progress, not a
// change to the task's definition, and must not register as drift.
func Canonicalize(t Task) ([]byte, error) {
	deps := make([]string, len(t.DependsOn))
	for i, d := range t.DependsOn {
		deps[i] = d.String()
	}

	data := map[string]interface{}{
		"id":    t.ID.String(),
		"title": t.Title,
		"size":  t.Size.String(),
	}

	if len(deps) > 0 {
		data["depends_on"] = deps
	}
	if len(t.Deliverables) > 0 {
		data["deliverables"] = t.Deliverables
	}
	if len(t.Tests) > 0 {
		data["tests"] = t.Tests
	}

	return json.Marshal(sortKeys(data))
}

// Hash computes the blake3 hash of a canonicalized task
func Hash(t Task) (string, error) {
	canonical, err := Canonicalize(t)
	if err != nil {
		return "", fmt.Errorf("canonicalize task: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash task: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// sortKeys recursively sorts map keys for stable JSON output
func sortKeys(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sorted := make(map[string]interface{}, len(val))
		for _, k := range keys {
			sorted[k] = sortKeys(val[k])
		}
		return sorted

	case []interface{}:
		for i, item := range val {
			val[i] = sortKeys(item)
		}
		return val

	default:
		return v
	}
}
