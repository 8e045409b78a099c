package main

import (
	"regexp"
	"sort"
	"strings"
)

// Reduction modes for multi-valued call numbers and locations.
const (
	reduceFirst = "first"
	reduceAll   = "all"
	reduceMsg   = "msg"
)

// Fallback messages when a record carries several distinct values.
const (
	msgMultipleCallNumbers = "Multiple Call Numbers"
	msgMultipleLocations   = "Multiple Locations"
)

// TranslateFunc renders the display text for a prefixed message key.
type TranslateFunc func(prefix, value string) string

// RenderServicesFunc renders the reduced list of service names.
type RenderServicesFunc func(services []string) string

// pickValue reduces a list of raw values to one display value. Duplicates
// collapse in first-seen order. A single distinct value (or "first" mode)
// yields that value, an empty list yields "", "all" joins the distinct
// values, anything else yields the fallback message.
func pickValue(rawList []string, mode string, msg string, translate TranslateFunc, transPrefix string) string {
	list := dedupe(rawList)

	if len(list) == 0 {
		return ""
	}
	if mode == reduceFirst || len(list) == 1 {
		return translateValue(list[0], translate, transPrefix)
	}
	if mode == reduceAll {
		for i, v := range list {
			list[i] = translateValue(v, translate, transPrefix)
		}
		return strings.Join(list, ",\t")
	}
	return msg
}

func translateValue(value string, translate TranslateFunc, prefix string) string {
	if translate == nil || prefix == "" {
		return value
	}
	return translate(prefix, value)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

var nonAlpha = regexp.MustCompile(`[^A-Za-z]`)

// reduceServices normalizes, dedupes and sorts the offered service names
// into a human-readable message. A configured preferred service collapses
// the list to just itself.
func reduceServices(rawServices []string, preferred string, render RenderServicesFunc) string {
	services := make([]string, 0, len(rawServices))
	for _, s := range dedupe(rawServices) {
		services = append(services, normalizeService(s))
	}
	sort.Strings(services)

	if preferred != "" {
		normPreferred := normalizeService(preferred)
		for _, s := range services {
			if s == normPreferred {
				services = []string{normPreferred}
				break
			}
		}
	}

	if render == nil {
		return strings.Join(services, ", ")
	}
	return render(services)
}

func normalizeService(in string) string {
	return strings.ToLower(nonAlpha.ReplaceAllString(in, ""))
}
