// Package gallery renders a thumbnail gallery into an HTML document and runs
// the lightbox viewer that opens on top of it.
package gallery

import (
	"encoding/json"
	"fmt"
	"os"
)

// Item describes a thumbnail and its full-size image.
type Item struct {
	Preview     string `json:"preview"`
	Original    string `json:"original"`
	Description string `json:"description"`
}

// LoadItems reads an ordered list of items from a JSON file.
func LoadItems(path string) ([]Item, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	is := []Item{}
	if err := json.Unmarshal(bs, &is); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return is, nil
}

// SaveItems writes items to path as JSON.
func SaveItems(path string, is []Item) error {
	bs, err := json.MarshalIndent(is, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return os.WriteFile(path, bs, 0o644)
}

// DuplicateOriginals returns original URLs that appear more than once.
// Navigation binds to the first match, so later duplicates can't be reached by
// arrow keys.
func DuplicateOriginals(is []Item) []string {
	seen := map[string]int{}
	dupes := []string{}
	for _, i := range is {
		seen[i.Original]++
		if seen[i.Original] == 2 {
			dupes = append(dupes, i.Original)
		}
	}
	return dupes
}
