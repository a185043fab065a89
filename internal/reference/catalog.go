package reference

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is an immutable in-memory reference data set.
type Catalog struct {
	countries     []Country
	businessTypes []BusinessType
}

type catalogFile struct {
	Countries     []Country      `yaml:"countries"`
	BusinessTypes []BusinessType `yaml:"business_types"`
}

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog and checks that ids are present and unique.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Countries))
	for _, c := range file.Countries {
		if c.ID == "" {
			return nil, fmt.Errorf("catalog country %q has no id", c.Name)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate catalog country id %q", c.ID)
		}
		seen[c.ID] = true
	}

	seen = make(map[string]bool, len(file.BusinessTypes))
	for _, bt := range file.BusinessTypes {
		if bt.ID == "" {
			return nil, fmt.Errorf("catalog business type %q has no id", bt.Name)
		}
		if seen[bt.ID] {
			return nil, fmt.Errorf("duplicate catalog business type id %q", bt.ID)
		}
		seen[bt.ID] = true

		scenarios := make(map[string]bool, len(bt.Scenarios))
		for _, s := range bt.Scenarios {
			if s.ID == "" || scenarios[s.ID] {
				return nil, fmt.Errorf("invalid scenario id %q in business type %q", s.ID, bt.ID)
			}
			scenarios[s.ID] = true
		}
	}

	return &Catalog{countries: file.Countries, businessTypes: file.BusinessTypes}, nil
}

// CountryByID implements Provider.
func (c *Catalog) CountryByID(_ context.Context, id string) (Country, error) {
	for _, country := range c.countries {
		if country.ID == id {
			return country, nil
		}
	}
	return Country{}, fmt.Errorf("country %q: %w", id, ErrNotFound)
}

// ScenarioByID implements Provider.
func (c *Catalog) ScenarioByID(_ context.Context, businessTypeID, scenarioID string) (Scenario, error) {
	for _, bt := range c.businessTypes {
		if bt.ID != businessTypeID {
			continue
		}
		for _, s := range bt.Scenarios {
			if s.ID == scenarioID {
				return s, nil
			}
		}
	}
	return Scenario{}, fmt.Errorf("scenario %q of business type %q: %w", scenarioID, businessTypeID, ErrNotFound)
}

// CountryByCode looks a country up by its ISO 3166-1 alpha-2 code.
func (c *Catalog) CountryByCode(_ context.Context, code string) (Country, error) {
	for _, country := range c.countries {
		if strings.EqualFold(country.Code, code) {
			return country, nil
		}
	}
	return Country{}, fmt.Errorf("country code %q: %w", code, ErrNotFound)
}

// AllCountries returns every country, active or not, in catalog order.
func (c *Catalog) AllCountries() []Country {
	out := make([]Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// ListCountries returns the active countries ordered by name.
func (c *Catalog) ListCountries(ctx context.Context) ([]Country, error) {
	return c.SearchCountries(ctx, "")
}

// SearchCountries matches active countries by name, code or currency,
// ignoring case, ordered by name. An empty query matches every active country.
func (c *Catalog) SearchCountries(_ context.Context, query string) ([]Country, error) {
	q := strings.ToLower(query)
	out := make([]Country, 0)
	for _, country := range c.countries {
		if !country.Active {
			continue
		}
		if strings.Contains(strings.ToLower(country.Name), q) ||
			strings.Contains(strings.ToLower(country.Code), q) ||
			strings.Contains(strings.ToLower(country.Currency), q) {
			out = append(out, country)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// BusinessTypes returns every business type with its scenarios, in catalog order.
func (c *Catalog) BusinessTypes() []BusinessType {
	out := make([]BusinessType, len(c.businessTypes))
	copy(out, c.businessTypes)
	return out
}

// ListBusinessTypes implements Source.
func (c *Catalog) ListBusinessTypes(_ context.Context) ([]BusinessType, error) {
	return c.BusinessTypes(), nil
}
