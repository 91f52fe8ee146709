// Package store persists the range set as a small YAML document so it can be
// inspected and hand-edited. Corruption is tolerated: a broken document or a
// broken entry degrades to a smaller set, never to a crash.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"netfence/internal/cidr"
)

const DefaultAddressFilePath = "data/addresses.yaml"

// document is the on-disk shape: a single mapping key bound to the ordered
// list of canonical CIDR strings.
type document struct {
	Addresses []string `yaml:"addresses"`
}

// AddressFile reads and writes the persisted range set.
type AddressFile struct {
	path string
}

func NewAddressFile(path string) *AddressFile {
	if path == "" {
		path = DefaultAddressFilePath
	}
	return &AddressFile{path: path}
}

func (f *AddressFile) Path() string {
	return f.path
}

// Load reads the persisted set. A missing or unreadable file yields an empty
// set, a corrupt document yields an empty set, and entries that no longer
// parse are skipped with a warning.
func (f *AddressFile) Load() []cidr.AddressRange {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Address file unreadable, starting empty", "path", f.path, "error", err)
		}
		return nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		log.Warn("Address file corrupt, starting empty", "path", f.path, "error", err)
		return nil
	}

	ranges := make([]cidr.AddressRange, 0, len(doc.Addresses))
	for _, token := range doc.Addresses {
		r, err := cidr.Parse(token)
		if err != nil {
			log.Warn("Skipping unparsable address entry", "entry", token, "error", err)
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges
}

// Save rewrites the whole document with the canonical forms in set order.
func (f *AddressFile) Save(ranges []cidr.AddressRange) error {
	doc := document{Addresses: make([]string, 0, len(ranges))}
	for _, r := range ranges {
		doc.Addresses = append(doc.Addresses, r.String())
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: marshal address document: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("store: create data directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, os.ModePerm); err != nil {
		return fmt.Errorf("store: write address document: %w", err)
	}
	return nil
}
