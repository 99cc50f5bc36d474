package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// PageSize is the number of people returned per list page.
const PageSize = 10

var (
	ErrInvalidFixture = errors.New("invalid profile fixture")
	ErrNotFound       = errors.New("profile not found")
)

//go:embed profiles.yaml
var defaultFixture []byte

// Person is a single directory entry.
type Person struct {
	Gender     string `yaml:"gender" json:"gender"`
	Name       Name   `yaml:"name" json:"name"`
	Email      string `yaml:"email" json:"email"`
	Dob        Dated  `yaml:"dob" json:"dob"`
	Registered Dated  `yaml:"registered" json:"registered"`
}

// Name holds the parts of a person's name.
type Name struct {
	Title string `yaml:"title" json:"title"`
	First string `yaml:"first" json:"first"`
	Last  string `yaml:"last" json:"last"`
}

// Dated is an RFC 3339 date with the age derived from it.
type Dated struct {
	Date string `yaml:"date" json:"date"`
	Age  int    `yaml:"age" json:"age"`
}

// Page is one page of the directory listing.
type Page struct {
	Limit    int      `json:"limit"`
	Next     *uint    `json:"next"`
	Page     uint     `json:"page"`
	Previous *uint    `json:"previous"`
	Total    int      `json:"total"`
	Results  []Person `json:"results"`
}

type fixture struct {
	People []Person `yaml:"people"`
}

// Directory is an in-memory, replaceable set of people.
// Safe for concurrent use.
type Directory struct {
	mu     sync.RWMutex
	people []Person
}

// NewDirectory creates a directory holding people.
func NewDirectory(people []Person) *Directory {
	return &Directory{people: slices.Clone(people)}
}

// Default returns a directory loaded from the embedded fixture.
func Default() (*Directory, error) {
	people, err := Parse(strings.NewReader(string(defaultFixture)))
	if err != nil {
		return nil, err
	}
	return NewDirectory(people), nil
}

// Parse decodes a YAML fixture with a top-level "people" list.
func Parse(r io.Reader) ([]Person, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFixture, err)
	}

	for i, p := range f.People {
		if p.Name.First == "" || p.Name.Last == "" {
			return nil, fmt.Errorf("%w: entry %d has no first or last name", ErrInvalidFixture, i)
		}
	}
	return f.People, nil
}

// LoadFile parses the fixture at path.
func LoadFile(path string) ([]Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Replace swaps the directory content.
func (d *Directory) Replace(people []Person) {
	d.mu.Lock()
	d.people = slices.Clone(people)
	d.mu.Unlock()
}

// Len returns the number of people in the directory.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.people)
}

// Single finds the first person whose first or last name matches name,
// case-insensitively.
func (d *Directory) Single(name string) (Person, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, p := range d.people {
		if strings.EqualFold(p.Name.First, name) || strings.EqualFold(p.Name.Last, name) {
			return p, nil
		}
	}
	return Person{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// List returns the requested page, sorted when q carries a sort order.
// Pages start at 1; a missing page means the first one. Pages past the end
// are empty and only link back.
func (d *Directory) List(q ListQuery) Page {
	d.mu.RLock()
	people := slices.Clone(d.people)
	d.mu.RUnlock()

	if sortBy, order, ok := q.sort(); ok {
		slices.SortStableFunc(people, func(a, b Person) int {
			c := strings.Compare(sortKey(a, sortBy), sortKey(b, sortBy))
			if order == OrderDesc {
				return -c
			}
			return c
		})
	}

	page := uint(1)
	if q.Page != nil && *q.Page > 0 {
		page = *q.Page
	}

	total := len(people)
	// page is client input and may be near MaxUint; the offset is only
	// computed for pages that exist.
	pages := uint(total+PageSize-1) / PageSize
	results := []Person{}
	if page <= pages {
		start := int(page-1) * PageSize
		results = people[start:min(start+PageSize, total)]
	}

	out := Page{
		Limit:   PageSize,
		Page:    page,
		Total:   total,
		Results: results,
	}
	if page < pages {
		next := page + 1
		out.Next = &next
	}
	if page > 1 {
		prev := page - 1
		out.Previous = &prev
	}
	return out
}

func sortKey(p Person, by SortField) string {
	switch by {
	case SortFirstName:
		return strings.ToLower(p.Name.First)
	case SortLastName:
		return strings.ToLower(p.Name.Last)
	case SortEmail:
		return strings.ToLower(p.Email)
	default:
		return p.Dob.Date
	}
}
