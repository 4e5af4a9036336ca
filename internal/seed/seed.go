// Package seed loads the todos inserted into an empty store at startup.
package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tinytelemetry/tudu/internal/model"
	"gopkg.in/yaml.v3"
)

// Item is one seed entry. A seed file is a YAML list of items, each with a
// title and an optional done flag.
type Item struct {
	Title string `yaml:"title"`
	Done  bool   `yaml:"done"`
}

// Demo returns the built-in demo todos.
func Demo() []Item {
	return []Item{
		{Title: "Buy milk"},
		{Title: "Wash the car"},
		{Title: "Feed the cat", Done: true},
		{Title: "Buy more cat food"},
	}
}

// LoadFile reads seed items from a YAML file.
func LoadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of seed items. Items without a title are rejected.
func Parse(data []byte) ([]Item, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		if items[i].Title == "" {
			return nil, fmt.Errorf("seed item %d: %w", i+1, model.ErrEmptyTitle)
		}
	}
	return items, nil
}

// Apply inserts items into store when it is empty. Items are added in order,
// so the last item becomes the newest todo. Returns the number inserted.
func Apply(store model.TodoStore, items []Item, now time.Time) (int, error) {
	n, err := store.Len()
	if err != nil {
		return 0, fmt.Errorf("counting todos: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for i, it := range items {
		if _, err := store.Add(it.Title, it.Done, now); err != nil {
			return i, fmt.Errorf("adding seed %q: %w", it.Title, err)
		}
	}
	return len(items), nil
}
