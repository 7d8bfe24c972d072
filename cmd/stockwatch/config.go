package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// TOML is a kong.ConfigurationLoader for flat TOML files. Keys are flag
// names, with dashes or underscores:
//
//	interval = "5m"
//	state_db = "stockwatch.db"
//	link_pattern = ["zara\\.com/es/"]
func TOML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := values[flag.Name]
		if !ok {
			raw, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok {
			return nil, nil
		}
		return configValue(raw), nil
	}
	return f, nil
}

// configValue renders a TOML value the way it would be typed on the command
// line. Arrays become a comma-separated list with commas inside elements
// escaped.
func configValue(raw any) string {
	items, ok := raw.([]any)
	if !ok {
		return fmt.Sprint(raw)
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = strings.ReplaceAll(fmt.Sprint(item), ",", `\,`)
	}
	return strings.Join(parts, ",")
}
