// Package manifest reads and writes the project-local Cloudfile and
// resolves which cloud a command targets.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Filename is the manifest file looked up in the working directory.
const Filename = "Cloudfile"

// Cloudfile is the per-project declaration of cloud code names. The file is
// a YAML mapping whose top-level keys are code names; key order is the
// declaration order and is preserved.
type Cloudfile struct {
	path string
}

// New returns a Cloudfile rooted at dir.
func New(dir string) *Cloudfile {
	return &Cloudfile{path: filepath.Join(dir, Filename)}
}

// Path returns the manifest location.
func (c *Cloudfile) Path() string {
	return c.path
}

// Exists reports whether the manifest file is present.
func (c *Cloudfile) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Clouds returns the declared code names in file order. A missing file
// yields an empty list, not an error.
func (c *Cloudfile) Clouds() ([]string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.path, err)
	}

	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, nil
	}

	mapping := root.Content[0]

	var clouds []string

	for i := 0; i < len(mapping.Content); i += 2 {
		clouds = append(clouds, mapping.Content[i].Value)
	}

	return clouds, nil
}

// Entry is the generated manifest content for one cloud.
type Entry struct {
	Size      string   `yaml:"size"`
	Databases []string `yaml:"databases,omitempty"`
}

// Append adds a cloud entry, creating the file when missing. The write is
// whole-file: the existing content is re-rendered together with the new
// entry so an interrupt never leaves a partial manifest.
func (c *Cloudfile) Append(codeName string, entry Entry) error {
	existing, err := os.ReadFile(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}

	addition, err := yaml.Marshal(map[string]Entry{codeName: entry})
	if err != nil {
		return fmt.Errorf("rendering manifest entry: %w", err)
	}

	content := append(existing, addition...)

	if err := os.WriteFile(c.path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}

	return nil
}

// Remove deletes a cloud entry, rewriting the whole file. Removing the last
// entry leaves an empty file rather than deleting it.
func (c *Cloudfile) Remove(codeName string) error {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parsing %s: %w", c.path, err)
	}

	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil
	}

	mapping := root.Content[0]

	var kept []*yaml.Node

	for i := 0; i < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == codeName {
			continue
		}

		kept = append(kept, mapping.Content[i], mapping.Content[i+1])
	}

	mapping.Content = kept

	var content []byte

	if len(kept) > 0 {
		content, err = yaml.Marshal(&root)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", c.path, err)
		}
	}

	if err := os.WriteFile(c.path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}

	return nil
}
