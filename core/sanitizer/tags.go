package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrNotStructPointer is returned when SanitizeStruct gets anything but a pointer to a struct.
	ErrNotStructPointer = errors.New("sanitizer: must pass a pointer to struct")
	// ErrUnknownSanitizer is returned for tag entries with no registered function.
	ErrUnknownSanitizer = errors.New("sanitizer: unknown sanitizer")
)

var (
	registryMu sync.RWMutex
	registry   = map[string]func(string) string{
		"trim":        Trim,
		"lower":       ToLower,
		"single_line": SingleLine,
		"no_spaces":   RemoveExtraWhitespace,
		"no_control":  RemoveControlChars,
		"strip_html":  StripHTML,
		"email":       NormalizeEmail,

		// a person's name as typed into a form
		"name": func(s string) string {
			return SingleLine(StripHTML(s))
		},
		// multi-line text keeping the author's line breaks
		"text": func(s string) string {
			return strings.TrimSpace(RemoveControlChars(s))
		},
	}
)

// RegisterSanitizer adds or replaces a named sanitizer.
func RegisterSanitizer(name string, fn func(string) string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// SanitizeStruct applies the sanitize tags of v's string fields, recursing
// into nested structs. Fields tagged "-" and untagged strings are left alone.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return sanitizeStruct(rv.Elem())
}

func sanitizeStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "-" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			if tag == "" {
				continue
			}
			clean, err := Apply(field.String(), tag)
			if err != nil {
				return fmt.Errorf("field %s: %w", rt.Field(i).Name, err)
			}
			field.SetString(clean)
		case reflect.Struct:
			if err := sanitizeStruct(field); err != nil {
				return err
			}
		case reflect.Pointer:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				if err := sanitizeStruct(field.Elem()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Apply runs the comma-separated sanitizers of tag over value.
func Apply(value, tag string) (string, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for name := range strings.SplitSeq(tag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if raw, ok := strings.CutPrefix(name, "max:"); ok {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return "", fmt.Errorf("%w: %q", ErrUnknownSanitizer, name)
			}
			value = MaxLength(value, n)
			continue
		}
		fn, ok := registry[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownSanitizer, name)
		}
		value = fn(value)
	}
	return value, nil
}
