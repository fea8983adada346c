// Package catalog loads attribute variant tables and event overrides from
// YAML documents.
//
// A catalog that fails validation is discarded as a whole; OrDefault falls
// back to the embedded default catalog in that case.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/seedshift/internal/variation/attr"
	"github.com/louisbranch/seedshift/internal/variation/events"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog holds every variant table the engine selects from.
type Catalog struct {
	Attributes attr.Set
	Events     events.Overrides
}

type document struct {
	IDs     map[string][]string          `yaml:"ids"`
	Classes map[string][]string          `yaml:"classes"`
	Texts   map[string][]string          `yaml:"texts"`
	Events  map[string]map[string]string `yaml:"events"`
}

// Load decodes and validates a YAML catalog.
func Load(r io.Reader) (Catalog, error) {
	if r == nil {
		return Catalog{}, errors.New("catalog reader is required")
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, errors.New("catalog is empty")
		}
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := doc.validate(); err != nil {
		return Catalog{}, err
	}
	return Catalog{
		Attributes: attr.Set{
			IDs:     attr.VariantMap(doc.IDs),
			Classes: attr.VariantMap(doc.Classes),
			Texts:   attr.VariantMap(doc.Texts),
		},
		Events: events.Overrides(doc.Events),
	}, nil
}

func (d document) validate() error {
	sections := []struct {
		name string
		m    map[string][]string
	}{
		{name: "ids", m: d.IDs},
		{name: "classes", m: d.Classes},
		{name: "texts", m: d.Texts},
	}
	for _, section := range sections {
		for key, candidates := range section.m {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("%s: empty element key", section.name)
			}
			if len(candidates) == 0 {
				return fmt.Errorf("%s.%s: no candidates", section.name, key)
			}
			for i, candidate := range candidates {
				if strings.TrimSpace(candidate) == "" {
					return fmt.Errorf("%s.%s[%d]: empty candidate", section.name, key, i)
				}
			}
		}
	}
	for eventType, values := range d.Events {
		if strings.TrimSpace(eventType) == "" {
			return errors.New("events: empty event type")
		}
		for key := range values {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("events.%s: empty element key", eventType)
			}
		}
	}
	return nil
}

// LoadFile loads a catalog from path.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the embedded catalog.
func Default() Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// OrDefault loads path, falling back to Default when path is empty or the
// file cannot be used.
func OrDefault(path string, logger *zap.Logger) Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	c, err := LoadFile(path)
	if err != nil {
		logger.Warn("discarding catalog file, using embedded default", zap.String("path", path), zap.Error(err))
		return Default()
	}
	return c
}

// WithAttribute returns a copy of c with kind's candidates for key replaced.
func (c Catalog) WithAttribute(kind attr.Kind, key string, candidates []string) Catalog {
	c.Attributes = c.Attributes.With(kind, key, candidates)
	return c
}

// Override replaces the candidates of one element attribute.
type Override struct {
	Kind       attr.Kind
	Key        string
	Candidates []string
}

// Merge returns a copy of c with overrides applied in order. Overrides with
// an unknown kind are ignored; empty candidates remove the key.
func (c Catalog) Merge(overrides []Override) Catalog {
	for _, o := range overrides {
		if _, ok := attr.ParseKind(string(o.Kind)); !ok {
			continue
		}
		c = c.WithAttribute(o.Kind, o.Key, o.Candidates)
	}
	return c
}
