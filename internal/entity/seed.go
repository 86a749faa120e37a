package entity

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// DefaultSnapshot returns a fresh copy of the default dataset: five
// employees across all roles (one inactive), seven open leads and one
// follow-up. There are no customers, so no lead starts as DEAL.
func DefaultSnapshot() (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(seedYAML, &snap); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}
