// Package catalog loads the match types and stipulations a promotion books.
//
// The embedded default catalog is used unless RINGSIDE_CATALOG_PATH points at
// a YAML file with the same shape:
//
//	match_types:
//	  - slug: tag_team
//	    name: Tag Team
//	    total_competitors: 4
//	    number_of_sides: 2
//	stipulations:
//	  - slug: ladder
//	    name: Ladder
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/hailwood/Ringside/internal/model"
)

//go:embed default.yaml
var defaultYAML []byte

var slugPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Catalog is a validated set of match types and stipulations.
type Catalog struct {
	MatchTypes   []MatchTypeEntry   `yaml:"match_types"`
	Stipulations []StipulationEntry `yaml:"stipulations"`
}

// MatchTypeEntry is one bookable match type.
type MatchTypeEntry struct {
	Slug             string `yaml:"slug"`
	Name             string `yaml:"name"`
	TotalCompetitors int    `yaml:"total_competitors"`
	NumberOfSides    int    `yaml:"number_of_sides"`
	MultipleReferees bool   `yaml:"multiple_referees"`
}

// StipulationEntry is one bookable stipulation.
type StipulationEntry struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// LoadFile reads and validates a catalog file. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every entry and returns all problems joined.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.MatchTypes) == 0 {
		errs = append(errs, errors.New("catalog needs at least one match type"))
	}

	seen := make(map[string]bool)
	for i, mt := range c.MatchTypes {
		if !slugPattern.MatchString(mt.Slug) {
			errs = append(errs, fmt.Errorf("match_types[%d]: invalid slug %q", i, mt.Slug))
		}
		if seen[mt.Slug] {
			errs = append(errs, fmt.Errorf("match_types[%d]: duplicate slug %q", i, mt.Slug))
		}
		seen[mt.Slug] = true
		if mt.Name == "" {
			errs = append(errs, fmt.Errorf("match_types[%d]: name is required", i))
		}
		if mt.TotalCompetitors <= 0 {
			errs = append(errs, fmt.Errorf("match_types[%d]: total_competitors must be positive", i))
		}
		if mt.NumberOfSides <= 0 {
			errs = append(errs, fmt.Errorf("match_types[%d]: number_of_sides must be positive", i))
		}
		if mt.NumberOfSides > mt.TotalCompetitors {
			errs = append(errs, fmt.Errorf("match_types[%d]: number_of_sides %d exceeds total_competitors %d",
				i, mt.NumberOfSides, mt.TotalCompetitors))
		}
	}

	seen = make(map[string]bool)
	for i, s := range c.Stipulations {
		if !slugPattern.MatchString(s.Slug) {
			errs = append(errs, fmt.Errorf("stipulations[%d]: invalid slug %q", i, s.Slug))
		}
		if seen[s.Slug] {
			errs = append(errs, fmt.Errorf("stipulations[%d]: duplicate slug %q", i, s.Slug))
		}
		seen[s.Slug] = true
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("stipulations[%d]: name is required", i))
		}
	}

	return errors.Join(errs...)
}

// MatchType returns the match type with the given slug.
func (c *Catalog) MatchType(slug string) (*model.MatchType, bool) {
	for _, e := range c.MatchTypes {
		if e.Slug == slug {
			return e.toModel(), true
		}
	}
	return nil, false
}

// Stipulation returns the stipulation with the given slug.
func (c *Catalog) Stipulation(slug string) (*model.Stipulation, bool) {
	for _, e := range c.Stipulations {
		if e.Slug == slug {
			return e.toModel(), true
		}
	}
	return nil, false
}

// RandomMatchType picks any match type.
func (c *Catalog) RandomMatchType() *model.MatchType {
	return c.MatchTypes[mrand.IntN(len(c.MatchTypes))].toModel()
}

// AllMatchTypes returns every match type as a model.
func (c *Catalog) AllMatchTypes() []*model.MatchType {
	out := make([]*model.MatchType, 0, len(c.MatchTypes))
	for _, e := range c.MatchTypes {
		out = append(out, e.toModel())
	}
	return out
}

// AllStipulations returns every stipulation as a model.
func (c *Catalog) AllStipulations() []*model.Stipulation {
	out := make([]*model.Stipulation, 0, len(c.Stipulations))
	for _, e := range c.Stipulations {
		out = append(out, e.toModel())
	}
	return out
}

func (e MatchTypeEntry) toModel() *model.MatchType {
	return &model.MatchType{
		ID:               model.SlugID(model.TableMatchType, e.Slug),
		Name:             e.Name,
		Slug:             e.Slug,
		TotalCompetitors: e.TotalCompetitors,
		NumberOfSides:    e.NumberOfSides,
		MultipleReferees: e.MultipleReferees,
	}
}

func (e StipulationEntry) toModel() *model.Stipulation {
	return &model.Stipulation{
		ID:   model.SlugID(model.TableStipulation, e.Slug),
		Name: e.Name,
		Slug: e.Slug,
	}
}
