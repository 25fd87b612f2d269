// Package catalog provides read access to the attraction reference data.
package catalog

import "roamify/internal/models"

// Catalog is an immutable, ordered set of attractions.
type Catalog struct {
	attractions []models.Attraction
	byName      map[string]int
}

// New builds a Catalog. When two rows share a name the first one is used for
// lookups; iteration still visits both.
func New(attractions []models.Attraction) *Catalog {
	c := &Catalog{
		attractions: append([]models.Attraction(nil), attractions...),
		byName:      make(map[string]int, len(attractions)),
	}
	for i, a := range c.attractions {
		if _, ok := c.byName[a.Name]; !ok {
			c.byName[a.Name] = i
		}
	}
	return c
}

func (c *Catalog) Len() int { return len(c.attractions) }

// All returns the attractions in file order.
func (c *Catalog) All() []models.Attraction {
	return append([]models.Attraction(nil), c.attractions...)
}

func (c *Catalog) Get(name string) (models.Attraction, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Attraction{}, false
	}
	return c.attractions[i], true
}

// Regions returns the distinct State values in order of first appearance.
func (c *Catalog) Regions() []string {
	seen := make(map[string]struct{})
	var regions []string
	for _, a := range c.attractions {
		if _, ok := seen[a.State]; ok {
			continue
		}
		seen[a.State] = struct{}{}
		regions = append(regions, a.State)
	}
	return regions
}

// InRegion returns the attractions whose State equals region, in file order.
func (c *Catalog) InRegion(region string) []models.Attraction {
	var out []models.Attraction
	for _, a := range c.attractions {
		if a.State == region {
			out = append(out, a)
		}
	}
	return out
}
