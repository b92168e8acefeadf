// Package content loads the site configuration that drives every page
// section.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSiteYAML []byte

// Site is the full page configuration.
type Site struct {
	Meta        Meta        `yaml:"site"`
	Navigation  Navigation  `yaml:"navigation"`
	Hero        Hero        `yaml:"hero"`
	Projects    Projects    `yaml:"projects"`
	About       About       `yaml:"about"`
	Skills      Skills      `yaml:"skills"`
	Experience  Experience  `yaml:"experience"`
	Timeline    Timeline    `yaml:"timeline"`
	SideProject SideProject `yaml:"side_project"`
	Contact     Contact     `yaml:"contact"`
}

type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type Navigation struct {
	BrandName string    `yaml:"brand_name"`
	Links     []NavLink `yaml:"links"`
}

type NavLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Hero struct {
	Eyebrow     string `yaml:"eyebrow"`
	TitleLine1  string `yaml:"title_line_1"`
	TitleLine2  string `yaml:"title_line_2"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"` // markdown
	CTAText     string `yaml:"cta_text"`
	Image       string `yaml:"image"`
	ImageAlt    string `yaml:"image_alt"`
}

type Projects struct {
	Title string    `yaml:"title"`
	Items []Project `yaml:"items"`
}

type Project struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Summary  string `yaml:"summary"` // markdown
	Image    string `yaml:"image"`
}

type About struct {
	Title          string          `yaml:"title"`
	Heading        string          `yaml:"heading"`
	Summary        string          `yaml:"summary"` // markdown
	Expertise      []string        `yaml:"expertise"`
	Certifications []Certification `yaml:"certifications"`
}

type Certification struct {
	Year   string `yaml:"year"`
	Title  string `yaml:"title"`
	Issuer string `yaml:"issuer"`
}

type Skills struct {
	Title string  `yaml:"title"`
	Items []Skill `yaml:"items"`
}

type Skill struct {
	Title   string `yaml:"title"`
	Excerpt string `yaml:"excerpt"`
}

type Experience struct {
	Title string `yaml:"title"`
	Roles []Role `yaml:"roles"`
}

type Role struct {
	Title   string `yaml:"title"`
	Company string `yaml:"company"`
	Summary string `yaml:"summary"`
	Logo    string `yaml:"logo"`
}

type Timeline struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Activities  []Activity `yaml:"activities"`
	Closing     string     `yaml:"closing"`
}

type Activity struct {
	Time        string   `yaml:"time"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tasks       []string `yaml:"tasks"`
}

type SideProject struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"` // markdown
	Disclaimer  string    `yaml:"disclaimer"`
	Features    []Feature `yaml:"features"`
}

type Feature struct {
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Excerpt string `yaml:"excerpt"`
}

type Contact struct {
	Title          string       `yaml:"title"`
	Description    string       `yaml:"description"`
	SuccessMessage string       `yaml:"success_message"`
	Expertise      []string     `yaml:"expertise"`
	Links          []SocialLink `yaml:"links"`
	Copyright      string       `yaml:"copyright"`
	Credit         string       `yaml:"credit"`
}

type SocialLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Default returns the embedded site configuration.
func Default() (*Site, error) {
	return Parse(defaultSiteYAML)
}

// Load reads the site configuration from path, or the embedded default when
// path is empty.
func Load(path string) (*Site, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a site configuration document. Unknown keys
// are rejected so typos surface at startup.
func Parse(raw []byte) (*Site, error) {
	var site Site
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the fields the page cannot render without.
func (s *Site) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Meta.Title) == "" {
		errs = append(errs, errors.New("site.title is required"))
	}
	if len(s.Navigation.Links) == 0 {
		errs = append(errs, errors.New("navigation.links must not be empty"))
	}
	for i, link := range s.Navigation.Links {
		if link.Label == "" || link.Href == "" {
			errs = append(errs, fmt.Errorf("navigation.links[%d] needs label and href", i))
		}
	}
	return errors.Join(errs...)
}
