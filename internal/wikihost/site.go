package wikihost

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Hanaasagi/riven/pkg/host"
)

// DefaultExpensiveLimit is the number of expensive lookups a page may make.
const DefaultExpensiveLimit = 100

// Site is the content and settings of a wiki: its pages, files and the state
// of its link cache. A Site is shared by every render on it.
type Site struct {
	Skin           string            `yaml:"skin,omitempty"`
	ExpensiveLimit int               `yaml:"expensive_limit,omitempty"`
	Request        map[string]string `yaml:"request,omitempty"`
	Pages          map[string]string `yaml:"pages,omitempty"`
	Files          map[string]bool   `yaml:"files,omitempty"`
	SpecialPages   []string          `yaml:"special_pages,omitempty"`
	Interwikis     []string          `yaml:"interwikis,omitempty"`
	Variants       map[string]string `yaml:"variants,omitempty"`
	// Display names of tracking categories by message key.
	Tracking  map[string]string `yaml:"tracking,omitempty"`
	LinkCache LinkCacheConfig   `yaml:"link_cache,omitempty"`

	pages map[string]*page
	good  map[string]int
	bad   map[string]bool
}

// LinkCacheConfig preloads the link cache.
type LinkCacheConfig struct {
	Good []string `yaml:"good,omitempty"`
	Bad  []string `yaml:"bad,omitempty"`
}

type page struct {
	id    int
	title *host.Title
	text  string
}

// NewSite creates an empty site.
func NewSite() *Site {
	s := &Site{}
	s.init()
	return s
}

// LoadSite reads a YAML site description.
func LoadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site: %w", err)
	}
	return ParseSite(data)
}

// ParseSite decodes a YAML site description.
func ParseSite(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site: %w", err)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) init() error {
	if s.Skin == "" {
		s.Skin = "vector"
	}
	if s.ExpensiveLimit <= 0 {
		s.ExpensiveLimit = DefaultExpensiveLimit
	}
	s.pages = make(map[string]*page)
	s.good = make(map[string]int)
	s.bad = make(map[string]bool)

	for name, text := range s.Pages {
		if err := s.AddPage(name, text); err != nil {
			return err
		}
	}
	for _, name := range s.LinkCache.Good {
		title, ok := s.NewTitle(name, host.NSMain)
		if !ok {
			return fmt.Errorf("link cache: invalid title %q", name)
		}
		s.good[title.PrefixedDBKey()] = len(s.good) + 1
	}
	for _, name := range s.LinkCache.Bad {
		title, ok := s.NewTitle(name, host.NSMain)
		if !ok {
			return fmt.Errorf("link cache: invalid title %q", name)
		}
		s.bad[title.PrefixedDBKey()] = true
	}
	return nil
}

// AddPage creates or replaces a page.
func (s *Site) AddPage(name, text string) error {
	title, ok := s.NewTitle(name, host.NSMain)
	if !ok {
		return fmt.Errorf("page: invalid title %q", name)
	}
	key := title.PrefixedDBKey()
	if existing, ok := s.pages[key]; ok {
		existing.text = text
		return nil
	}
	s.pages[key] = &page{id: len(s.pages) + 1, title: title, text: text}
	return nil
}

// AddFile records an uploaded file. A file that is known but missing has
// exists set to false.
func (s *Site) AddFile(name string, exists bool) {
	if s.Files == nil {
		s.Files = make(map[string]bool)
	}
	s.Files[name] = exists
}

func (s *Site) lookup(title *host.Title) (*page, bool) {
	p, ok := s.pages[title.PrefixedDBKey()]
	return p, ok
}

func (s *Site) pageExists(title *host.Title) bool {
	_, ok := s.lookup(title)
	return ok
}

func (s *Site) findFile(name string) (exists, known bool) {
	for fileName, fileExists := range s.Files {
		if strings.EqualFold(strings.ReplaceAll(fileName, "_", " "), strings.ReplaceAll(name, "_", " ")) {
			return fileExists, true
		}
	}
	return false, false
}

func (s *Site) specialPageExists(name string) bool {
	name = strings.ReplaceAll(name, "_", " ")
	for _, special := range s.SpecialPages {
		if strings.EqualFold(special, name) {
			return true
		}
	}
	return false
}

func (s *Site) isInterwiki(prefix string) bool {
	for _, iw := range s.Interwikis {
		if strings.EqualFold(iw, prefix) {
			return true
		}
	}
	return false
}

func (s *Site) trackingName(key string) string {
	if name, ok := s.Tracking[key]; ok {
		return name
	}
	return key
}
