// Package inspect exports a read-only snapshot of a built registry.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/reglet-traitcast/manifest"
	"github.com/reglet-dev/reglet-traitcast/registry"
)

// Format selects the snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q", s)
}

// EntryLister builds and lists registered pairs. *registry.Registry
// satisfies it.
type EntryLister interface {
	Build() error
	Entries() []registry.Entry
}

// Record is one registered pair, named the way manifests name types.
type Record struct {
	Type       string `yaml:"type" json:"type"`
	Capability string `yaml:"capability" json:"capability"`
	Site       string `yaml:"site" json:"site"`
}

// Snapshot is the exported form of a registry.
type Snapshot struct {
	Entries []Record `yaml:"entries" json:"entries"`
	Count   int      `yaml:"count" json:"count"`
}

// Take builds a snapshot from the registry's entries. A registry that failed
// to build yields its build error.
func Take(r EntryLister) (Snapshot, error) {
	if err := r.Build(); err != nil {
		return Snapshot{}, fmt.Errorf("registry build failed: %w", err)
	}

	entries := r.Entries()
	s := Snapshot{
		Entries: make([]Record, 0, len(entries)),
		Count:   len(entries),
	}
	for _, e := range entries {
		s.Entries = append(s.Entries, Record{
			Type:       manifest.TypeName(e.Concrete),
			Capability: manifest.TypeName(e.Capability),
			Site:       e.Site,
		})
	}
	return s, nil
}

// Write encodes a snapshot of r to w.
func Write(w io.Writer, r EntryLister, format Format) error {
	snap, err := Take(r)
	if err != nil {
		return err
	}

	var b []byte
	switch format {
	case FormatYAML:
		b, err = yaml.Marshal(snap)
	case FormatJSON:
		b, err = json.MarshalIndent(snap, "", "  ")
		if err == nil {
			b = append(b, '\n')
		}
	default:
		return fmt.Errorf("unknown snapshot format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
