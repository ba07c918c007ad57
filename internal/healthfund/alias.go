// Package healthfund interprets health fund registry records: the alias
// dictionary for plan names and the most-recent-plan summary used in
// verdicts.
package healthfund

import (
	"encoding/json"
	"fmt"
	"os"
)

// AliasTable maps exact official plan names to short aliases. Lookup is
// exact-match on the name as the registry renders it, accents included;
// unmatched names pass through unchanged.
type AliasTable struct {
	alias map[string]string
}

type aliasFile struct {
	Alias map[string]string `json:"alias"`
}

// LoadAliases reads the alias dictionary from a JSON file.
func LoadAliases(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	var f aliasFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	return &AliasTable{alias: f.Alias}, nil
}

// EmptyAliases returns a table with no entries; every name passes through.
func EmptyAliases() *AliasTable {
	return &AliasTable{}
}

// Len returns the number of loaded aliases.
func (t *AliasTable) Len() int { return len(t.alias) }

// Apply returns the short alias for a plan name, or the name itself.
func (t *AliasTable) Apply(name string) string {
	if t == nil {
		return name
	}
	if short, ok := t.alias[name]; ok {
		return short
	}
	return name
}
