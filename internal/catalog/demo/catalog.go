// Package demo serves the static seed catalog. It backs every content type
// as the second source behind the live store, so an empty database still
// renders a representative, non-empty surface. That is deliberate product
// behavior, not a data bug.
package demo

import (
	_ "embed"
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"wayfarer/internal/catalog"
	wstrings "wayfarer/pkg/platform/strings"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Trips []struct {
		ID       int64  `yaml:"id"`
		Title    string `yaml:"title"`
		Summary  string `yaml:"summary"`
		Traffic  int64  `yaml:"traffic"`
		Owner    string `yaml:"owner"`
		Keywords string `yaml:"keywords"`
	} `yaml:"trips"`
	Users []struct {
		Username  string `yaml:"username"`
		Name      string `yaml:"name"`
		Bio       string `yaml:"bio"`
		Followers int64  `yaml:"followers"`
		Keywords  string `yaml:"keywords"`
	} `yaml:"users"`
	Blogs []struct {
		Slug     string `yaml:"slug"`
		Title    string `yaml:"title"`
		Summary  string `yaml:"summary"`
		Reads    int64  `yaml:"reads"`
		Owner    string `yaml:"owner"`
		Keywords string `yaml:"keywords"`
	} `yaml:"blogs"`
}

// Catalog holds the parsed seed rows, already in Item shape.
type Catalog struct {
	items map[catalog.Type][]catalog.Item
}

// Load parses the embedded seed file.
func Load() (*Catalog, error) {
	return load(seedYAML)
}

func load(raw []byte) (*Catalog, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse demo seed: %w", err)
	}

	c := &Catalog{items: make(map[catalog.Type][]catalog.Item, 3)}
	for _, t := range f.Trips {
		c.items[catalog.TypeTrip] = append(c.items[catalog.TypeTrip], catalog.Item{
			Type:       catalog.TypeTrip,
			Key:        strconv.FormatInt(t.ID, 10),
			Title:      t.Title,
			Summary:    t.Summary,
			Popularity: t.Traffic,
			Origin:     catalog.OriginDemo,
			OwnerID:    wstrings.NormalizeKey(t.Owner),
			Keywords:   t.Keywords,
		})
	}
	for _, u := range f.Users {
		key, ok := catalog.ProfileKey(u.Username)
		if !ok {
			continue
		}
		c.items[catalog.TypeProfile] = append(c.items[catalog.TypeProfile], catalog.Item{
			Type:       catalog.TypeProfile,
			Key:        key,
			Title:      u.Name,
			Summary:    u.Bio,
			Popularity: u.Followers,
			Origin:     catalog.OriginDemo,
			OwnerID:    key,
			Keywords:   u.Keywords,
		})
	}
	for _, b := range f.Blogs {
		key, ok := catalog.BlogKey(b.Slug)
		if !ok {
			continue
		}
		c.items[catalog.TypeBlog] = append(c.items[catalog.TypeBlog], catalog.Item{
			Type:       catalog.TypeBlog,
			Key:        key,
			Title:      b.Title,
			Summary:    b.Summary,
			Popularity: b.Reads,
			Origin:     catalog.OriginDemo,
			OwnerID:    wstrings.NormalizeKey(b.Owner),
			Keywords:   b.Keywords,
		})
	}
	return c, nil
}

// Reader returns the demo-side catalog.Reader for one content type.
func (c *Catalog) Reader(t catalog.Type) catalog.Reader {
	return &reader{catalog: c, contentType: t}
}

type reader struct {
	catalog     *Catalog
	contentType catalog.Type
}

// List filters the seed rows by the free-text query. Member-scoped trip tabs
// (hosting, saved, past) never draw from the demo catalog: padding a
// member's own lists with seed rows would be nonsense.
func (r *reader) List(_ context.Context, q catalog.Query) ([]catalog.Item, catalog.Availability, error) {
	if r.contentType == catalog.TypeTrip {
		switch q.Tab {
		case catalog.TabHosting, catalog.TabSaved, catalog.TabPast:
			return nil, catalog.Available, nil
		}
	}

	rows := r.catalog.items[r.contentType]
	out := make([]catalog.Item, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	for _, item := range rows {
		if needle != "" && !matches(item, needle) {
			continue
		}
		out = append(out, item)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, catalog.Available, nil
}

func matches(item catalog.Item, needle string) bool {
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Summary), needle) ||
		strings.Contains(strings.ToLower(item.Keywords), needle)
}
