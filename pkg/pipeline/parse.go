package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
)

// Load reads items from path. A path of "-" reads from stdin, which needs an
// explicit format since there is no extension to infer it from.
func Load(path, format string, stdin io.Reader) ([]graph.Item, error) {
	if path != "-" {
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		return graph.ReadItemsFile(path, format)
	}
	if format == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "reading stdin needs an explicit format")
	}
	items, err := graph.ReadItems(stdin, format)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return items, nil
}

func marshalItems(items []graph.Item) ([]byte, error) {
	data, err := json.Marshal(graph.ItemSet{Items: items})
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return data, nil
}
