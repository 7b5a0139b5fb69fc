// Package directory maps handler names to Telegram chat ids.
//
// The mapping is loaded from a static JSON object file
// ({"alice": 123456789, "bob": 987654321}); YAML mappings are accepted
// when the file ends in .yaml/.yml.
package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	logx "duebot/pkg/logx"
)

// Directory is an immutable recipient key -> chat id mapping.
type Directory struct {
	ids map[string]int64
}

// New builds a directory from an in-memory mapping. Keys are normalized
// the same way handler names are grouped (trimmed, lowercased).
func New(m map[string]int64) *Directory {
	ids := make(map[string]int64, len(m))
	for k, v := range m {
		key := Key(k)
		if key == "" {
			continue
		}
		ids[key] = v
	}
	return &Directory{ids: ids}
}

// Key normalizes a handler name into a recipient key.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load reads the mapping file. Any failure is logged and yields an empty directory.
func Load(path string, log logx.Logger) *Directory {
	if log.IsZero() {
		log = logx.Nop()
	}
	m, err := parseFile(path)
	if err != nil {
		log.Error("failed to load recipient directory", logx.String("path", path), logx.Err(err))
		return New(nil)
	}
	d := New(m)
	log.Info("recipient directory loaded", logx.String("path", path), logx.Int("recipients", d.Len()))
	log.Debug("recipient keys", logx.Strs("keys", d.Keys()))
	return d
}

// Lookup returns the chat id for a recipient key.
func (d *Directory) Lookup(key string) (int64, bool) {
	if d == nil {
		return 0, false
	}
	id, ok := d.ids[Key(key)]
	return id, ok
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.ids)
}

// Keys returns the recipient keys in sorted order.
func (d *Directory) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.ids))
	for k := range d.ids {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func parseFile(path string) (map[string]int64, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("directory path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		var v map[string]any
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
		if b, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("yaml->json marshal: %w", err)
		}
	}

	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("directory must be a JSON object")
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		id, err := parseID(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = id
	}
	return out, nil
}

// parseID accepts JSON numbers and numeric strings.
func parseID(v json.RawMessage) (int64, error) {
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var val interface{}
	if err := dec.Decode(&val); err != nil {
		return 0, err
	}
	switch x := val.(type) {
	case json.Number:
		n = x
	case string:
		n = json.Number(strings.TrimSpace(x))
	default:
		return 0, fmt.Errorf("invalid id %s (want number)", string(v))
	}
	id, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", n.String(), err)
	}
	return id, nil
}
