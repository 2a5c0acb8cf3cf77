package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const latestConfigVersion = 1

// A configMigration upgrades a config document from version to version+1.
// apply edits the top-level mapping in place and reports whether it changed
// anything.
type configMigration struct {
	version int
	desc    string
	apply   func(top *yaml.Node) (bool, error)
}

var configMigrations = []configMigration{
	{version: 0, desc: "allowed_characters becomes allowed_labels", apply: charactersToLabels},
}

var errNothingToMigrate = errors.New("nothing to migrate")

// migrateConfig brings dir/config.yml up to latestConfigVersion. Comments
// survive; the previous file is kept next to it as config.yml.bak.
func migrateConfig(dir string) error {
	path := filepath.Join(dir, "config.yml")

	orig, doc, err := readConfigDoc(path)
	if errors.Is(err, errNothingToMigrate) {
		fmt.Printf("keypresenter: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	top := doc.Content[0]

	from, err := configVersion(top)
	if err != nil {
		return err
	}
	if from >= latestConfigVersion {
		fmt.Printf("keypresenter: config.yml is at version %d, nothing to do\n", from)
		return nil
	}

	for _, m := range configMigrations {
		if m.version < from {
			continue
		}
		fmt.Printf("keypresenter: version %d -> %d: %s\n", m.version, m.version+1, m.desc)
		changed, err := m.apply(top)
		if err != nil {
			return fmt.Errorf("upgrade from version %d: %w", m.version, err)
		}
		if !changed {
			fmt.Println("  already in the new form")
		}
	}
	stampVersion(top, latestConfigVersion)

	if err := writeMigrated(path, orig, doc); err != nil {
		return err
	}
	fmt.Printf("keypresenter: config.yml upgraded to version %d\n", latestConfigVersion)
	return nil
}

// readConfigDoc returns the raw file and its node tree. A missing or empty
// file yields errNothingToMigrate.
func readConfigDoc(path string) ([]byte, *yaml.Node, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w: no config.yml", errNothingToMigrate)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read config.yml: %w", err)
	}

	doc := &yaml.Node{}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, nil, fmt.Errorf("parse config.yml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("%w: config.yml is empty", errNothingToMigrate)
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, nil, errors.New("config.yml: top level must be a mapping")
	}
	return raw, doc, nil
}

func writeMigrated(path string, orig []byte, doc *yaml.Node) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config.yml: %w", err)
	}
	if err := os.WriteFile(path+".bak", orig, 0644); err != nil {
		return fmt.Errorf("back up config.yml: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write config.yml: %w", err)
	}
	return nil
}

// configVersion reads config_version; files from before versioning have none
// and count as version 0.
func configVersion(top *yaml.Node) (int, error) {
	v := lookupKey(top, "config_version")
	if v == nil {
		return 0, nil
	}
	var n int
	if err := v.Decode(&n); err != nil {
		return 0, fmt.Errorf("config_version: %w", err)
	}
	return n, nil
}

// charactersToLabels turns the single allowed_characters string into the
// allowed_labels list (a ' ' becomes "space") and renames timeout to pulse_ms.
func charactersToLabels(top *yaml.Node) (bool, error) {
	changed := false

	if chars := lookupKey(top, "allowed_characters"); chars != nil {
		if chars.Kind != yaml.ScalarNode {
			return false, errors.New("allowed_characters must be a string")
		}
		list := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, r := range chars.Value {
			name := string(r)
			if r == ' ' {
				name = "space"
			}
			list.Content = append(list.Content, &yaml.Node{
				Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: name,
			})
		}
		dropKeys(top, "allowed_characters")
		putKey(top, "allowed_labels", list)
		changed = true
	}

	if timeout := lookupKey(top, "timeout"); timeout != nil {
		dropKeys(top, "timeout")
		putKey(top, "pulse_ms", timeout)
		changed = true
	}

	return changed, nil
}

// stampVersion sets config_version, adding it at the top when missing.
func stampVersion(top *yaml.Node, version int) {
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(version)}
	if v := lookupKey(top, "config_version"); v != nil {
		*v = *val
		return
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "config_version"}
	top.Content = append([]*yaml.Node{key, val}, top.Content...)
}

// lookupKey returns the value stored under key in a mapping node, or nil.
func lookupKey(m *yaml.Node, key string) *yaml.Node {
	for i := 1; i < len(m.Content); i += 2 {
		if m.Content[i-1].Value == key {
			return m.Content[i]
		}
	}
	return nil
}

// putKey stores val under key, appending the pair when key is new.
func putKey(m *yaml.Node, key string, val *yaml.Node) {
	if v := lookupKey(m, key); v != nil {
		*v = *val
		return
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
}

// dropKeys deletes every pair whose key is one of keys.
func dropKeys(m *yaml.Node, keys ...string) {
	kept := m.Content[:0]
	for i := 1; i < len(m.Content); i += 2 {
		k, v := m.Content[i-1], m.Content[i]
		drop := false
		for _, name := range keys {
			if k.Value == name {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, k, v)
		}
	}
	m.Content = kept
}
