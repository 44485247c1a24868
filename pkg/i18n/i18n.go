// Package i18n defines the translation contract the form runtime depends on.
// The lookup service itself is an external collaborator; fields and forms only
// ever see the Translator interface.
package i18n

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrMissingTranslator is passed to MissingHandler when no Translator is
// configured at all.
var ErrMissingTranslator = errors.New("i18n: translator is not configured")

// Translator resolves a message key for a locale. Implementations may ignore
// locale when they only carry a single language.
type Translator interface {
	Translate(locale, key string, params ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, params ...any) (string, error)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, params ...any) (string, error) {
	return fn(locale, key, params...)
}

// MissingHandler controls the string returned when a translation cannot be
// resolved.
type MissingHandler func(locale, key string, params []any, err error) string

// KeyFallback is the default MissingHandler: it returns the key itself so
// missing translations stay visible instead of rendering blank labels.
func KeyFallback(_ string, key string, _ []any, _ error) string {
	return key
}

// Map is a Translator backed by per-locale message maps. Messages may carry
// fmt verbs which are filled from params. Safe for concurrent reads after
// construction; Add may be called at runtime.
type Map struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback string
}

// NewMap constructs a Map translator. fallbackLocale is consulted when the
// requested locale has no entry for a key.
func NewMap(fallbackLocale string) *Map {
	return &Map{
		messages: make(map[string]map[string]string),
		fallback: strings.TrimSpace(fallbackLocale),
	}
}

// Add registers messages for a locale, merging over existing entries.
func (m *Map) Add(locale string, messages map[string]string) {
	locale = strings.TrimSpace(locale)
	if locale == "" || len(messages) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.messages[locale]
	if bucket == nil {
		bucket = make(map[string]string, len(messages))
		m.messages[locale] = bucket
	}
	for key, msg := range messages {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			bucket[trimmed] = msg
		}
	}
}

// Translate implements Translator.
func (m *Map) Translate(locale, key string, params ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("i18n: key is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.lookup(locale, key)
	if !ok && m.fallback != "" && m.fallback != locale {
		msg, ok = m.lookup(m.fallback, key)
	}
	if !ok {
		return "", fmt.Errorf("i18n: missing translation %q", key)
	}
	if len(params) == 0 {
		return msg, nil
	}
	return fmt.Sprintf(msg, params...), nil
}

func (m *Map) lookup(locale, key string) (string, bool) {
	bucket, ok := m.messages[strings.TrimSpace(locale)]
	if !ok {
		return "", false
	}
	msg, ok := bucket[key]
	return msg, ok
}

// T resolves key via t, falling back to the fmt-expanded fallback text when
// the translator is nil, errors, or yields an empty message. Field validation
// messages are built through this helper so a runtime without a translation
// service still produces readable errors.
func T(t Translator, locale, key, fallback string, params ...any) string {
	if t != nil {
		msg, err := t.Translate(locale, key, params...)
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if fallback == "" {
		return key
	}
	if len(params) == 0 {
		return fallback
	}
	return fmt.Sprintf(fallback, params...)
}
