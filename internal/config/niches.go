package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Channel is one member of a niche.
type Channel struct {
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
}

// Niches maps a niche name to the channels searched together under it.
type Niches map[string][]Channel

// LoadNiches reads the niche definitions from a JSON file. A missing or
// malformed file degrades to an empty set — the returned error is for
// logging only and never blocks the query path.
func LoadNiches(path string) (Niches, error) {
	if path == "" {
		path = DefaultNichesPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Niches{}, nil
		}
		return Niches{}, fmt.Errorf("reading niches: %w", err)
	}

	var niches Niches
	if err := json.Unmarshal(data, &niches); err != nil {
		return Niches{}, fmt.Errorf("parsing niches %s: %w", path, err)
	}
	return niches, nil
}

// Names returns the niche names in stable order.
func (n Niches) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChannelIDs returns the channel ids of the named niche, or nil when the
// niche is unknown.
func (n Niches) ChannelIDs(name string) []string {
	channels, ok := n[name]
	if !ok {
		return nil
	}
	ids := make([]string, len(channels))
	for i, c := range channels {
		ids[i] = c.ChannelID
	}
	return ids
}
