package locale

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/schedtext/internal/cache"
)

// Registry holds locale tables keyed by BCP 47 tag and resolves requests to
// the closest available table.
type Registry struct {
	mu      sync.RWMutex
	tables  map[language.Tag]TimeStrings
	tags    []language.Tag
	matcher language.Matcher

	// matches memoizes Lookup by raw request tag (often a full
	// Accept-Language header).
	matches *cache.LRU[language.Tag]
}

// NewRegistry creates a registry containing only English.
func NewRegistry() *Registry {
	r := &Registry{
		tables:  make(map[language.Tag]TimeStrings),
		matches: cache.New[language.Tag](512, time.Hour),
	}
	r.add(language.English, English)
	return r
}

// Register adds or replaces a table.
func (r *Registry) Register(s TimeStrings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tag, err := language.Parse(s.Tag)
	if err != nil {
		return errors.Wrapf(err, "invalid locale tag %q", s.Tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(tag, s)
	r.matches.Clear()
	return nil
}

// add assumes the lock is held.
func (r *Registry) add(tag language.Tag, s TimeStrings) {
	if _, ok := r.tables[tag]; !ok {
		r.tags = append(r.tags, tag)
	}
	r.tables[tag] = s
	// English stays first so it is the matcher's default.
	r.matcher = language.NewMatcher(r.tags)
}

// Lookup returns the best table for tag; unknown or malformed tags get English.
func (r *Registry) Lookup(tag string) TimeStrings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tag == "" {
		return r.tables[language.English]
	}
	if best, ok := r.matches.Get(tag); ok {
		return r.tables[best]
	}
	best := r.match(tag)
	r.matches.Set(tag, best, 0)
	return r.tables[best]
}

// match assumes the read lock is held.
func (r *Registry) match(tag string) language.Tag {
	desired, _, err := language.ParseAcceptLanguage(tag)
	if err != nil || len(desired) == 0 {
		return language.English
	}
	_, idx, conf := r.matcher.Match(desired...)
	if conf == language.No {
		return language.English
	}
	return r.tags[idx]
}

// Tags lists the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

// LoadDir registers every *.yaml, *.yml and *.toml table in dir. A file
// without a tag field takes its tag from the file name ("de.yaml" → "de").
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "unable to read locale directory %s", dir)
	}

	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml" && ext != ".toml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		s, err := loadFile(path)
		if err != nil {
			return err
		}
		if s.Tag == "" {
			s.Tag = strings.TrimSuffix(e.Name(), ext)
		}
		if err := r.Register(s); err != nil {
			return errors.Wrapf(err, "unable to register locale file %s", path)
		}
		slog.Debug("locale registered", slog.String("tag", s.Tag), slog.String("path", path))
	}
	return nil
}

func loadFile(path string) (TimeStrings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TimeStrings{}, errors.Wrapf(err, "unable to read locale file %s", path)
	}
	var s TimeStrings
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return TimeStrings{}, errors.Wrapf(err, "unable to parse locale file %s", path)
	}
	return s, nil
}
