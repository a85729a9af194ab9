package world

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// zoneDoc is one YAML document in a zone file. A file may hold several
// documents separated by "---".
type zoneDoc struct {
	Zone struct {
		ID                     string   `yaml:"id"`
		Name                   string   `yaml:"name"`
		Description            string   `yaml:"description"`
		MinLevel               int      `yaml:"min_level"`
		Mobs                   []string `yaml:"mobs"`
		Boss                   string   `yaml:"boss"`
		ScriptDir              string   `yaml:"script_dir"`
		ScriptInstructionLimit int      `yaml:"script_instruction_limit"`
	} `yaml:"zone"`
}

func (d zoneDoc) toZone() *Zone {
	return &Zone{
		ID:                     d.Zone.ID,
		Name:                   d.Zone.Name,
		Description:            strings.TrimSpace(d.Zone.Description),
		MinLevel:               d.Zone.MinLevel,
		Mobs:                   append([]string(nil), d.Zone.Mobs...),
		Boss:                   d.Zone.Boss,
		ScriptDir:              d.Zone.ScriptDir,
		ScriptInstructionLimit: d.Zone.ScriptInstructionLimit,
	}
}

// ParseZones decodes every zone document in data and validates each one.
//
// Postcondition: Returns at least one validated Zone, in document order, or a
// non-nil error naming the offending document.
func ParseZones(data []byte) ([]*Zone, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*Zone
	for n := 1; ; n++ {
		var doc zoneDoc
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		z := doc.toZone()
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		out = append(out, z)
	}
	if len(out) == 0 {
		return nil, errors.New("no zone documents")
	}
	return out, nil
}

// LoadZones reads every *.yaml and *.yml file under dir, sorted by file name.
//
// Precondition: dir must exist.
// Postcondition: Returns all zones from all files or the first error; an
// empty directory is an error.
func LoadZones(dir string) ([]*Zone, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})

	var zones []*Zone
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("zones: %w", err)
		}
		parsed, err := ParseZones(data)
		if err != nil {
			return nil, fmt.Errorf("zones: %s: %w", filepath.Base(path), err)
		}
		zones = append(zones, parsed...)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("zones: no zone files in %s", dir)
	}
	return zones, nil
}
