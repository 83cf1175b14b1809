package document

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"
)

// Block sources
const (
	SourceJSONLD = "json-ld"
	SourceInline = "inline"
)

// organisation-like schema.org types, matched case-insensitively
var organizationTypes = map[string]bool{
	"organization":                true,
	"corporation":                 true,
	"localbusiness":               true,
	"ngo":                         true,
	"educationalorganization":     true,
	"governmentorganization":      true,
	"medicalorganization":         true,
	"professionalservice":         true,
	"onlinebusiness":              true,
	"onlinestore":                 true,
	"store":                       true,
	"sportsorganization":          true,
	"newsmediaorganization":       true,
	"performinggroup":             true,
	"financialservice":            true,
	"foodestablishment":           true,
	"restaurant":                  true,
	"homeandconstructionbusiness": true,
}

// Block is one structured-data object embedded in the page
type Block struct {
	Source string
	Types  []string
	Data   map[string]any
}

// IsOrganization reports whether the block describes an organisation
func (b Block) IsOrganization() bool {
	for _, t := range b.Types {
		if organizationTypes[strings.ToLower(t)] {
			return true
		}
	}
	return false
}

func (b Block) rank() int {
	switch {
	case b.Source == SourceJSONLD && b.IsOrganization():
		return 0
	case b.Source == SourceJSONLD:
		return 1
	default:
		return 2
	}
}

// String returns the first of keys holding a scalar value
func (b Block) String(keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := Scalar(b.Data[key]); ok {
			return s, true
		}
	}
	return "", false
}

// Map returns a nested object value
func (b Block) Map(key string) (map[string]any, bool) {
	m, ok := b.Data[key].(map[string]any)
	return m, ok
}

// List returns a value as a slice, wrapping single values
func (b Block) List(key string) []any {
	return AsList(b.Data[key])
}

// Scalar renders a string, number or bool leaf as trimmed text
func Scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := collapse(t)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// AsList wraps a single value in a slice and passes slices through
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// Name returns a scalar value or the "name" of an object value
func Name(v any) (string, bool) {
	if s, ok := Scalar(v); ok {
		return s, true
	}
	if m, ok := v.(map[string]any); ok {
		return Scalar(m["name"])
	}
	return "", false
}

func extractJSONLD(dom *goquery.Document) []Block {
	var blocks []Block
	dom.Find(`script[type="application/ld+json"]`).Each(func(i int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		v, ok := decodeJSONLD(raw)
		if !ok {
			log.Debug().Int("block", i).Msg("Skipping unreadable JSON-LD block")
			return
		}
		blocks = appendBlocks(blocks, SourceJSONLD, v)
	})
	return blocks
}

func decodeJSONLD(raw string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, true
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, false
	}
	log.Debug().Msg("Repaired malformed JSON-LD block")
	return v, true
}

// appendBlocks flattens arrays and @graph containers into individual blocks
func appendBlocks(blocks []Block, source string, v any) []Block {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			blocks = appendBlocks(blocks, source, item)
		}
	case map[string]any:
		if graph, ok := t["@graph"]; ok {
			blocks = appendBlocks(blocks, source, graph)
			if len(t) <= 2 {
				return blocks
			}
		}
		blocks = append(blocks, Block{Source: source, Types: blockTypes(t["@type"]), Data: t})
	}
	return blocks
}

func blockTypes(v any) []string {
	var out []string
	for _, item := range AsList(v) {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
