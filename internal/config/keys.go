// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Keys are the TOML key paths, "backend.url" style, as used by
// `skybot config get|set`.

// Get returns the value at a dotted key.
func (c *Config) Get(key string) (any, error) {
	field, err := c.field(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value for the field at key. Strings are converted to the
// field's kind; booleans accept true, yes and 1.
func (c *Config) Set(key string, value any) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}
	if s, ok := value.(string); ok {
		return setString(field, s)
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || !v.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("cannot assign %T to %s", value, key)
	}
	field.Set(v.Convert(field.Type()))
	return nil
}

func setString(field reflect.Value, s string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %q", s)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid number: %q", s)
		}
		field.SetFloat(f)
	case reflect.Bool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "true", "yes", "on":
			field.SetBool(true)
		case "0", "false", "no", "off":
			field.SetBool(false)
		default:
			return fmt.Errorf("invalid boolean: %q", s)
		}
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// field resolves key by following toml tags from the root.
func (c *Config) field(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	v := reflect.ValueOf(c).Elem()
	parts := strings.Split(key, ".")
	for i, part := range parts {
		next, ok := byTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown key: %s", strings.Join(parts[:i+1], "."))
		}
		last := i == len(parts)-1
		switch {
		case last && next.Kind() == reflect.Struct:
			return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
		case !last && next.Kind() != reflect.Struct:
			return reflect.Value{}, fmt.Errorf("'%s' is a value, not a section", strings.Join(parts[:i+1], "."))
		}
		v = next
	}
	return v, nil
}

func byTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tomlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tomlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return name
}

// GetAllKeys lists every settable key in declaration order.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := prefix + tomlName(f)
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, name+".")
				continue
			}
			keys = append(keys, name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}
