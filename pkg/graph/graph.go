package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"sigs.k8s.io/yaml"

	"github.com/matzehuels/layerview/pkg/dag"
	"github.com/matzehuels/layerview/pkg/dag/transform"
	"github.com/matzehuels/layerview/pkg/errors"
)

// =============================================================================
// Item Input API
// =============================================================================

// ReadItemsFile reads an item file. An empty format is inferred from the
// file extension.
func ReadItemsFile(path, format string) ([]Item, error) {
	format, err := errors.ValidateInputFormat(format, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "item file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalItems(data, format)
}

// ReadItems decodes items in the given format ("json", "yaml" or "toml")
// from r.
func ReadItems(r io.Reader, format string) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalItems(data, format)
}

// UnmarshalItems decodes items in the given format. JSON and YAML accept
// both an [ItemSet] document and a bare list of items.
func UnmarshalItems(data []byte, format string) ([]Item, error) {
	format, err := errors.ValidateInputFormat(format, "")
	if err != nil {
		return nil, err
	}

	switch format {
	case "toml":
		var set ItemSet
		if err := toml.Unmarshal(data, &set); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		return set.Items, nil
	case "yaml":
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
		data = converted
	}
	return unmarshalJSONItems(data)
}

func unmarshalJSONItems(data []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode items")
		}
		return items, nil
	}
	var set ItemSet
	if err := json.Unmarshal(trimmed, &set); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode items")
	}
	return set.Items, nil
}

// =============================================================================
// DAG Construction
// =============================================================================

// ToDAG validates items and builds the vertex arena. Vertex i of the result
// is items[i]; every prerequisite p of an item c becomes the edge p→c.
//
// Validation happens up front, before any layout work:
//   - Identifiers must pass [errors.ValidateItemID] and be unique (INVALID_INPUT)
//   - Every prerequisite must name an item (DANGLING_REFERENCE)
//   - The prerequisite relation must be acyclic (CYCLIC_GRAPH)
//
// Duplicate prerequisites of one item collapse into a single edge.
func ToDAG(items []Item) (*dag.DAG, error) {
	g := dag.New()
	for _, it := range items {
		if err := errors.ValidateItemID(it.ID); err != nil {
			return nil, err
		}
		if _, err := g.AddVertex(it.ID, it.Rank); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate item id %q", it.ID)
		}
	}

	for i, it := range items {
		for _, p := range it.Prerequisites {
			from, ok := g.Lookup(p)
			if !ok {
				return nil, errors.New(errors.ErrCodeDanglingReference, "item %q requires unknown item %q", it.ID, p)
			}
			if from == i {
				return nil, errors.New(errors.ErrCodeCyclicGraph, "item %q requires itself", it.ID)
			}
			if err := g.AddEdge(from, i); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add edge %q -> %q", p, it.ID)
			}
		}
	}

	if path := transform.FindCycle(g); path != nil {
		return nil, errors.Wrap(errors.ErrCodeCyclicGraph, &transform.CycleError{Path: path}, "prerequisites form a cycle")
	}
	return g, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes a layout from JSON bytes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// ReadLayoutFile reads a layout written by [WriteLayoutFile] or
// [WriteLayoutYAML]. Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s not found", path)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var l Layout
		if err := yaml.Unmarshal(data, &l); err != nil {
			return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout %s", path)
		}
		return l, nil
	default:
		l, err := UnmarshalLayout(data)
		if err != nil {
			return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout %s", path)
		}
		return l, nil
	}
}

// WriteLayout writes a layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a layout to a JSON file.
// The file is created with 0644 permissions.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(l, f)
}

// WriteLayoutYAML writes a layout as YAML to an io.Writer.
func WriteLayoutYAML(l Layout, w io.Writer) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}
