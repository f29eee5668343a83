// Package catalog holds the static plan catalog and the bill estimator.
package catalog

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"power_wizard/internal/models"
)

//go:embed plans.yaml
var defaultCatalog []byte

var (
	ErrDuplicatePlan   = eris.New("catalog: duplicate plan id")
	ErrMultipleBest    = eris.New("catalog: more than one best-match plan")
	ErrPlanWithoutTier = eris.New("catalog: plan has no bill tiers")
	ErrPlanWithoutID   = eris.New("catalog: plan has no id")
)

type document struct {
	Plans []models.Plan `yaml:"plans"`
}

// Catalog is a read-only, ordered set of plans.
type Catalog struct {
	plans []models.Plan
	byID  map[string]int
	best  int
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return parse(defaultCatalog)
}

// Load reads a catalog from a YAML file; an empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %q", path)
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "catalog: decode yaml")
	}
	return New(doc.Plans)
}

// New validates plans and builds a catalog. Plan order is preserved.
func New(plans []models.Plan) (*Catalog, error) {
	c := &Catalog{
		plans: make([]models.Plan, len(plans)),
		byID:  make(map[string]int, len(plans)),
		best:  -1,
	}
	copy(c.plans, plans)

	for i, p := range c.plans {
		if p.ID == "" {
			return nil, eris.Wrapf(ErrPlanWithoutID, "index %d", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, eris.Wrapf(ErrDuplicatePlan, "id %q", p.ID)
		}
		if len(p.EstimatedBill) == 0 {
			return nil, eris.Wrapf(ErrPlanWithoutTier, "id %q", p.ID)
		}
		if p.BestMatch {
			if c.best >= 0 {
				return nil, eris.Wrapf(ErrMultipleBest, "%q and %q", c.plans[c.best].ID, p.ID)
			}
			c.best = i
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Plans returns a copy of the catalog in declaration order.
func (c *Catalog) Plans() []models.Plan {
	out := make([]models.Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Len is the number of plans.
func (c *Catalog) Len() int { return len(c.plans) }

// ByID looks a plan up by id.
func (c *Catalog) ByID(id string) (models.Plan, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Plan{}, false
	}
	return c.plans[i], true
}

// BestMatch returns the catalog's recommended plan, if any.
func (c *Catalog) BestMatch() (models.Plan, bool) {
	if c.best < 0 {
		return models.Plan{}, false
	}
	return c.plans[c.best], true
}

// Providers lists distinct providers in catalog order.
func (c *Catalog) Providers() []string {
	seen := make(map[string]struct{}, len(c.plans))
	var out []string
	for _, p := range c.plans {
		if _, ok := seen[p.Provider]; ok {
			continue
		}
		seen[p.Provider] = struct{}{}
		out = append(out, p.Provider)
	}
	return out
}
