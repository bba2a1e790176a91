// Package seed holds the demo dataset inserted into an empty store.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"primenest/pkg/domain"
)

//go:embed dataset.yaml
var datasetYAML []byte

// Dataset is the parsed seed content. Properties name their agent by Key.
type Dataset struct {
	Agents     []Agent    `yaml:"agents"`
	Properties []Property `yaml:"properties"`
}

// Agent is a seed agent entry.
type Agent struct {
	Key            string  `yaml:"key"`
	Name           string  `yaml:"name"`
	Title          string  `yaml:"title"`
	Email          string  `yaml:"email"`
	Phone          string  `yaml:"phone"`
	Photo          string  `yaml:"photo"`
	ActiveListings int     `yaml:"activeListings"`
	Experience     string  `yaml:"experience"`
	Specialty      *string `yaml:"specialty"`
}

// Input converts the entry into the store's insert shape.
func (a Agent) Input() domain.NewAgent {
	listings := a.ActiveListings
	var specialty *string
	if a.Specialty != nil {
		specialty = domain.StringPtr(*a.Specialty)
	}
	return domain.NewAgent{
		Name:           a.Name,
		Title:          a.Title,
		Email:          a.Email,
		Phone:          a.Phone,
		Photo:          a.Photo,
		ActiveListings: &listings,
		Experience:     a.Experience,
		Specialty:      specialty,
	}
}

// Property is a seed property entry.
type Property struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Price        string   `yaml:"price"`
	Location     string   `yaml:"location"`
	City         string   `yaml:"city"`
	Bedrooms     int      `yaml:"bedrooms"`
	Bathrooms    string   `yaml:"bathrooms"`
	Area         int      `yaml:"area"`
	Status       string   `yaml:"status"`
	PropertyType string   `yaml:"propertyType"`
	Featured     bool     `yaml:"featured"`
	Images       []string `yaml:"images"`
	Agent        string   `yaml:"agent"`
}

// Input converts the entry into the store's insert shape using the resolved agent id.
func (p Property) Input(agentID string) domain.NewProperty {
	featured := p.Featured
	return domain.NewProperty{
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Location:     p.Location,
		City:         p.City,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Status:       domain.PropertyStatus(p.Status),
		PropertyType: domain.PropertyType(p.PropertyType),
		Featured:     &featured,
		Images:       append([]string(nil), p.Images...),
		AgentID:      agentID,
	}
}

// Default returns the embedded demo dataset: 4 agents and 6 properties.
func Default() Dataset {
	ds, err := Parse(datasetYAML)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded dataset invalid: %v", err))
	}
	return ds
}

// Parse decodes a dataset and checks that agent keys are unique and every
// property references a known agent and a canonical status.
func Parse(raw []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode seed dataset: %w", err)
	}
	keys := make(map[string]struct{}, len(ds.Agents))
	for i, a := range ds.Agents {
		if a.Key == "" {
			return Dataset{}, fmt.Errorf("agent %d: missing key", i)
		}
		if _, dup := keys[a.Key]; dup {
			return Dataset{}, fmt.Errorf("agent %d: duplicate key %q", i, a.Key)
		}
		keys[a.Key] = struct{}{}
	}
	for i, p := range ds.Properties {
		if _, ok := keys[p.Agent]; !ok {
			return Dataset{}, fmt.Errorf("property %d (%s): unknown agent %q", i, p.Title, p.Agent)
		}
		if !domain.PropertyStatus(p.Status).Valid() {
			return Dataset{}, fmt.Errorf("property %d (%s): invalid status %q", i, p.Title, p.Status)
		}
		if len(p.Images) == 0 {
			return Dataset{}, fmt.Errorf("property %d (%s): no images", i, p.Title)
		}
	}
	return ds, nil
}
