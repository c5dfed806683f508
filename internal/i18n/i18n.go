// Package i18n - поиск переводов по ключу и локали с откатом на en-US.
package i18n

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
)

const BaseLocale = "en-US"

// Translator - граница с движком: перевести ключ для локали.
type Translator interface {
	Translate(locale, key string) (string, bool)
}

// TranslatorFunc позволяет использовать функцию как Translator.
type TranslatorFunc func(locale, key string) (string, bool)

func (f TranslatorFunc) Translate(locale, key string) (string, bool) { return f(locale, key) }

// Lookup возвращает перевод или fallback, если перевода нет или он пустой.
func Lookup(tr Translator, locale, key, fallback string) string {
	if tr == nil || key == "" {
		return fallback
	}
	v, ok := tr.Translate(locale, key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Catalog - переводы в памяти: locale -> key -> text.
type Catalog struct {
	mu      sync.RWMutex
	locales map[string]map[string]string
	matcher language.Matcher
	tags    []language.Tag
}

func NewCatalog() *Catalog {
	return &Catalog{locales: map[string]map[string]string{}}
}

// Add регистрирует сообщения одной локали (поверх уже загруженных).
func (c *Catalog) Add(locale string, messages map[string]string) error {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return eris.Wrapf(err, "parse locale %q", locale)
	}
	name := tag.String()

	// ключи проверяются до изменения каталога: ошибка не оставляет частичных записей
	clean := make(map[string]string, len(messages))
	for k, v := range messages {
		key := strings.TrimSpace(k)
		if key == "" {
			return eris.Errorf("locale %s: blank message key", name)
		}
		clean[key] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.locales[name]
	if !ok {
		m = make(map[string]string, len(clean))
		c.locales[name] = m
	}
	for k, v := range clean {
		m[k] = v
	}
	c.rebuildLocked()
	return nil
}

// LoadDir читает файлы вида <dir>/<locale>.json с плоской картой ключей.
func (c *Catalog) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return eris.Wrapf(err, "glob %s", dir)
	}
	sort.Strings(paths)
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return eris.Wrapf(err, "read catalog %s", p)
		}
		var messages map[string]string
		if err := json.Unmarshal(b, &messages); err != nil {
			return eris.Wrapf(err, "parse catalog %s", p)
		}
		locale := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if err := c.Add(locale, messages); err != nil {
			return err
		}
	}
	return nil
}

// Translate ищет ключ в ближайшей подходящей локали, затем в en-US.
func (c *Catalog) Translate(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.locales) == 0 {
		return "", false
	}

	if name := c.matchLocked(locale); name != "" {
		if v, ok := c.locales[name][key]; ok {
			return v, true
		}
	}
	if base, ok := c.locales[BaseLocale]; ok {
		v, ok := base[key]
		return v, ok
	}
	return "", false
}

// Locales - загруженные локали, по алфавиту.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.locales))
	for l := range c.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) matchLocked(locale string) string {
	if c.matcher == nil {
		return ""
	}
	want, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return ""
	}
	if _, ok := c.locales[want.String()]; ok {
		return want.String()
	}
	_, idx, conf := c.matcher.Match(want)
	if conf == language.No {
		return ""
	}
	return c.tags[idx].String()
}

func (c *Catalog) rebuildLocked() {
	names := make([]string, 0, len(c.locales))
	for l := range c.locales {
		names = append(names, l)
	}
	sort.Strings(names)
	c.tags = c.tags[:0]
	for _, n := range names {
		c.tags = append(c.tags, language.MustParse(n))
	}
	c.matcher = language.NewMatcher(c.tags)
}
