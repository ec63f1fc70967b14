package compare

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// LoadFile reads model scores from YAML or JSON. Two shapes are accepted:
//
//	Random Forest: {accuracy: 0.91, f1: 0.88}
//	XGBoost: {accuracy: 0.93, f1: 0.90}
//
// or a list of {name, scores} entries. File order is preserved.
func LoadFile(path string) (*Comparator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.OperationFailed("read "+path, err)
	}
	return Parse(b)
}

// Parse decodes the LoadFile formats from memory.
func Parse(data []byte) (*Comparator, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.OperationFailed("parse model scores", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errs.EmptyDataset()
	}
	root := doc.Content[0]
	c := &Comparator{}
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			name := root.Content[i].Value
			scores, order, err := decodeScores(root.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("model %q: %w", name, err)
			}
			if err := c.add(name, scores, order); err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			var entry struct {
				Name   string    `yaml:"name"`
				Scores yaml.Node `yaml:"scores"`
			}
			if err := item.Decode(&entry); err != nil {
				return nil, errs.OperationFailed("parse model scores", err)
			}
			scores, order, err := decodeScores(&entry.Scores)
			if err != nil {
				return nil, fmt.Errorf("model %q: %w", entry.Name, err)
			}
			if err := c.add(entry.Name, scores, order); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errs.InvalidDataType("model scores must be a mapping or a list")
	}
	if c.Len() == 0 {
		return nil, errs.EmptyDataset()
	}
	return c, nil
}

func decodeScores(n *yaml.Node) (map[string]float64, []string, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nil, errs.InvalidDataType("scores must be a mapping of metric to number")
	}
	scores := make(map[string]float64, len(n.Content)/2)
	order := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		var v float64
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, nil, errs.NotNumeric(key, n.Content[i+1].Tag)
		}
		scores[key] = v
		order = append(order, key)
	}
	return scores, order, nil
}
