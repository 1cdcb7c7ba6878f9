package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FromEnviron resolves the configuration from the process environment.
func FromEnviron() (Config, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return Resolve(env)
}

// Resolve builds a Config from env in schema order. The first option that
// cannot be resolved stops the pass and is returned as a *ConfigError; no
// partially resolved Config is ever returned with it.
func Resolve(env map[string]string) (Config, error) {
	r := &resolver{env: env}

	cfg := Config{
		URL:         r.str(KeyURL),
		Selector:    r.str(KeySelector),
		Query:       QueryMode(r.choice(KeyQuery)),
		Type:        PropertyType(r.choice(KeyType)),
		AllowDomain: r.str(KeyAllowDomain),
		Output:      OutputMode(r.choice(KeyOutput)),
		Format:      FormatStyle(r.choice(KeyFormat)),
		Limit:       r.integer(KeyLimit),
		Debug:       r.boolean(KeyDebug),
		Timeout:     time.Duration(r.integer(KeyTimeout)) * time.Millisecond,
		Runtime:     RuntimeKind(r.choice(KeyRuntime)),
		WaitUntil:   r.choice(KeyWaitUntil),
		Headless:    r.boolean(KeyHeadless),
	}

	if r.err != nil {
		return Config{}, r.err
	}
	return cfg, nil
}

// resolver carries the first failure through a sequence of lookups.
// Once err is set every further lookup is a no-op.
type resolver struct {
	env map[string]string
	err error
}

// raw returns the external value, or the default, for key. ok is false when
// the key is absent, either legitimately or because resolution failed.
func (r *resolver) raw(key string) (spec OptionSpec, value string, ok bool) {
	if r.err != nil {
		return spec, "", false
	}

	spec, found := Lookup(key)
	if !found {
		panic("config: unknown option " + key)
	}

	if v := r.env[key]; v != "" {
		return spec, v, true
	}
	if spec.HasDefault() {
		return spec, spec.Default, true
	}
	if !spec.Required {
		return spec, "", false
	}

	r.fail(spec, "", ErrMissingOption)
	return spec, "", false
}

func (r *resolver) fail(spec OptionSpec, value string, err error) {
	r.err = &ConfigError{
		Key:         spec.Key,
		Description: spec.Description,
		Example:     spec.Example,
		Value:       value,
		Allowed:     spec.Allowed,
		Err:         err,
	}
}

func (r *resolver) str(key string) string {
	_, value, _ := r.raw(key)
	return value
}

func (r *resolver) integer(key string) int {
	spec, value, ok := r.raw(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.fail(spec, value, ErrInvalidInteger)
		return 0
	}
	return n
}

func (r *resolver) boolean(key string) bool {
	spec, value, ok := r.raw(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	r.fail(spec, value, ErrInvalidBoolean)
	return false
}

func (r *resolver) choice(key string) string {
	spec, value, ok := r.raw(key)
	if !ok {
		return ""
	}
	if !slices.Contains(spec.Allowed, value) {
		r.fail(spec, value, ErrInvalidChoice)
		return ""
	}
	return value
}
