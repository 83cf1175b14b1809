package document

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

const defaultScriptBudget = 500 * time.Millisecond

// maxInlineDepth bounds how far into a global's value typed objects are sought
const maxInlineDepth = 4

// evalInlineScripts runs the page's inline scripts in a bare sandbox and
// returns the schema.org-typed objects found in the globals they assigned.
// Untyped state such as widget config is ignored.
func evalInlineScripts(dom *goquery.Document, pageURL string, budget time.Duration) []Block {
	if budget <= 0 {
		budget = defaultScriptBudget
	}

	var scripts []string
	dom.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if _, external := sel.Attr("src"); external {
			return
		}
		typ := strings.ToLower(sel.AttrOr("type", ""))
		if typ != "" && typ != "text/javascript" && typ != "application/javascript" && typ != "module" {
			return
		}
		if src := strings.TrimSpace(sel.Text()); src != "" {
			scripts = append(scripts, src)
		}
	})
	if len(scripts) == 0 {
		return nil
	}

	vm := goja.New()
	location := map[string]interface{}{"href": pageURL}
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("location", location)
	vm.Set("document", map[string]interface{}{"location": location})
	vm.Set("console", map[string]interface{}{"log": noop, "warn": noop, "error": noop})

	timer := time.AfterFunc(budget, func() {
		vm.Interrupt("script budget exceeded")
	})
	defer timer.Stop()

	for i, src := range scripts {
		if _, err := vm.RunString(src); err != nil {
			if _, interrupted := err.(*goja.InterruptedError); interrupted {
				log.Debug().Str("url", pageURL).Int("script", i).Msg("Inline script budget exceeded")
				break
			}
			// most scripts fail on the missing DOM
			continue
		}
	}

	keys := vm.GlobalObject().Keys()
	sort.Strings(keys)

	var blocks []Block
	for _, key := range keys {
		if isStandardGlobal(key) {
			continue
		}
		val := vm.Get(key)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			continue
		}
		blocks = appendTyped(blocks, val.Export(), 0)
	}
	return blocks
}

// appendTyped adds every object under v that carries an @type
func appendTyped(blocks []Block, v any, depth int) []Block {
	if depth > maxInlineDepth {
		return blocks
	}
	switch val := v.(type) {
	case map[string]interface{}:
		if types := blockTypes(val["@type"]); len(types) > 0 {
			return append(blocks, Block{Source: SourceInline, Types: types, Data: val})
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			blocks = appendTyped(blocks, val[k], depth+1)
		}
	case []interface{}:
		for _, item := range val {
			blocks = appendTyped(blocks, item, depth+1)
		}
	}
	return blocks
}

func isStandardGlobal(key string) bool {
	standards := map[string]bool{
		"window": true, "self": true, "document": true, "location": true, "console": true,
		"Object": true, "Array": true, "String": true, "Number": true, "Boolean": true,
		"Date": true, "Math": true, "JSON": true, "RegExp": true, "Error": true,
		"Function": true, "parseInt": true, "parseFloat": true, "isNaN": true,
		"isFinite": true, "encodeURI": true, "decodeURI": true, "encodeURIComponent": true,
		"decodeURIComponent": true, "undefined": true, "NaN": true, "Infinity": true,
	}
	return standards[key]
}
