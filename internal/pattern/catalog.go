package pattern

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
)

//go:embed defaults/patterns.yaml
var defaultCatalogYAML []byte

// ErrNoPatterns is returned when a catalog document has no patterns section.
var ErrNoPatterns = errors.New("pattern: no patterns section")

// Catalog is the ordered, immutable set of patterns.
type Catalog struct {
	patterns []Pattern
	index    map[string]int

	// Warnings lists descriptors and patterns dropped while parsing.
	Warnings []string
}

// Patterns returns the patterns in catalog order.
func (c *Catalog) Patterns() []Pattern {
	if c == nil {
		return nil
	}
	return c.patterns
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.patterns)
}

// Lookup finds a pattern by name.
func (c *Catalog) Lookup(name string) (Pattern, bool) {
	if c == nil {
		return Pattern{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Pattern{}, false
	}
	return c.patterns[i], true
}

func (c *Catalog) add(p Pattern) {
	if i, ok := c.index[p.Name]; ok {
		c.patterns[i] = p
		return
	}
	c.index[p.Name] = len(c.patterns)
	c.patterns = append(c.patterns, p)
}

func (c *Catalog) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

type vecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type descriptorSpec struct {
	Kind     string        `yaml:"kind"`
	X        float64       `yaml:"x"`
	Y        float64       `yaml:"y"`
	Velocity *vecSpec      `yaml:"velocity"`
	Movement *MovementSpec `yaml:"movement"`
	Value    float64       `yaml:"value"`
}

type patternSpec struct {
	Tier     string           `yaml:"tier"`
	Tags     []string         `yaml:"tags"`
	Entities []descriptorSpec `yaml:"entities"`
}

// ParseCatalog decodes a catalog document. Patterns keep document order.
// A pattern is either a mapping with tags and entities or a bare list of
// entities. Unknown kinds, bad movement axes and empty patterns are dropped
// and reported in Warnings.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pattern: parse catalog: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, ErrNoPatterns
	}

	var section *yaml.Node
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "patterns" {
			section = root.Content[i+1]
			break
		}
	}
	if section == nil || section.Kind != yaml.MappingNode {
		return nil, ErrNoPatterns
	}

	c := &Catalog{index: make(map[string]int)}
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		body := section.Content[i+1]

		var spec patternSpec
		var err error
		switch body.Kind {
		case yaml.SequenceNode:
			err = body.Decode(&spec.Entities)
		case yaml.MappingNode:
			err = body.Decode(&spec)
		default:
			err = fmt.Errorf("line %d: expected list or mapping", body.Line)
		}
		if err != nil {
			c.warnf("pattern %q dropped: %v", name, err)
			continue
		}

		p, ok := c.build(name, spec)
		if !ok {
			continue
		}
		c.add(p)
	}
	return c, nil
}

func (c *Catalog) build(name string, spec patternSpec) (Pattern, bool) {
	tier := TierFromName(name)
	if spec.Tier != "" {
		t, ok := ParseTier(spec.Tier)
		if !ok {
			c.warnf("pattern %q: unknown tier %q, using %s", name, spec.Tier, tier)
		} else {
			tier = t
		}
	}

	p := Pattern{Name: name, Tier: tier, Tags: spec.Tags}
	for i, ds := range spec.Entities {
		if _, ok := entity.Resolve(ds.Kind); !ok {
			c.warnf("pattern %q entity %d: unknown kind %q", name, i, ds.Kind)
			continue
		}
		if ds.Movement != nil && ds.Movement.Axis != "x" && ds.Movement.Axis != "y" {
			c.warnf("pattern %q entity %d: bad movement axis %q", name, i, ds.Movement.Axis)
			continue
		}

		d := Descriptor{Kind: ds.Kind, X: ds.X, Y: ds.Y, Movement: ds.Movement, Value: ds.Value}
		if ds.Velocity != nil {
			v := core.V(ds.Velocity.X, ds.Velocity.Y)
			d.Velocity = &v
		}
		p.Descriptors = append(p.Descriptors, d)
	}

	if len(p.Descriptors) == 0 {
		c.warnf("pattern %q dropped: no usable entities", name)
		return Pattern{}, false
	}
	return p, true
}

// DefaultCatalog parses the embedded catalog. It returns an empty catalog
// if the embedded data is unusable.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		return &Catalog{index: make(map[string]int)}
	}
	return c
}

// LoadCatalog loads the pattern catalog.
// Search order: path -> ~/.runner/patterns.yaml -> ./configs/patterns.yaml -> embedded default.
// Failures are logged and fall through to the next source; the result is
// never nil.
func LoadCatalog(path string, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}

	candidates := []string{path, filepath.Join(config.UserDataDir(), "patterns.yaml"), filepath.Join("configs", "patterns.yaml")}
	for i, p := range candidates {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			// Only a custom path is expected to exist
			if i == 0 {
				logger.Warn("pattern catalog unreadable, falling back", "path", p, "error", err)
			}
			continue
		}
		c, err := ParseCatalog(data)
		if err != nil {
			logger.Warn("pattern catalog invalid, falling back", "path", p, "error", err)
			continue
		}
		logCatalog(logger, p, c)
		if c.Len() == 0 {
			continue
		}
		return c
	}

	c := DefaultCatalog()
	logCatalog(logger, "embedded", c)
	return c
}

func logCatalog(logger *log.Logger, source string, c *Catalog) {
	for _, w := range c.Warnings {
		logger.Warn("pattern catalog", "source", source, "warning", w)
	}
	logger.Debug("pattern catalog loaded", "source", source, "patterns", c.Len())
}
