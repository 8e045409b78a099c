package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickValueEmpty(t *testing.T) {
	assert.Equal(t, "", pickValue(nil, reduceFirst, "msg", nil, ""))
	assert.Equal(t, "", pickValue([]string{}, reduceAll, "msg", nil, ""))
	assert.Equal(t, "", pickValue(nil, reduceMsg, "msg", nil, ""))
}

func TestPickValueSingleValue(t *testing.T) {
	// duplicates collapse to a single value regardless of mode
	values := []string{"LS1", "LS1", "LS1"}
	assert.Equal(t, "LS1", pickValue(values, reduceMsg, "msg", nil, ""))
	assert.Equal(t, "LS1", pickValue(values, reduceAll, "msg", nil, ""))
}

func TestPickValueTranslation(t *testing.T) {
	translate := func(prefix, value string) string {
		if prefix == "location_" && value == "LS1" {
			return "Reading Room 1"
		}
		return value
	}
	assert.Equal(t, "Reading Room 1", pickValue([]string{"LS1"}, reduceFirst, "msg", translate, "location_"))

	// no prefix means no translation
	assert.Equal(t, "LS1", pickValue([]string{"LS1"}, reduceFirst, "msg", translate, ""))
}

func TestPickValueFirstMode(t *testing.T) {
	assert.Equal(t, "LS1", pickValue([]string{"LS1", "MAG"}, reduceFirst, "msg", nil, ""))
}

func TestPickValueAllMode(t *testing.T) {
	// join preserves first-seen order after dedupe
	got := pickValue([]string{"MAG", "LS1", "MAG"}, reduceAll, "msg", nil, "")
	assert.Equal(t, "MAG,\tLS1", got)
}

func TestPickValueMsgMode(t *testing.T) {
	got := pickValue([]string{"AB 100", "CD 200"}, reduceMsg, msgMultipleCallNumbers, nil, "")
	assert.Equal(t, msgMultipleCallNumbers, got)
}

func TestReduceServicesNormalizeAndSort(t *testing.T) {
	got := reduceServices([]string{"Presentation!", "loan", "loan"}, "", nil)
	assert.Equal(t, "loan, presentation", got)
}

func TestReduceServicesPreferredCollapse(t *testing.T) {
	got := reduceServices([]string{"loan", "presentation"}, "loan", nil)
	assert.Equal(t, "loan", got)

	// a preferred service not on offer changes nothing
	got = reduceServices([]string{"presentation"}, "loan", nil)
	assert.Equal(t, "presentation", got)
}

func TestReduceServicesRenderer(t *testing.T) {
	render := func(services []string) string {
		return "you can " + strings.Join(services, " or ")
	}
	got := reduceServices([]string{"presentation", "loan"}, "", render)
	assert.Equal(t, "you can loan or presentation", got)
}

func TestNormalizeService(t *testing.T) {
	assert.Equal(t, "interloan", normalizeService("Inter-Loan (2)"))
	assert.Equal(t, "", normalizeService("123"))
}
