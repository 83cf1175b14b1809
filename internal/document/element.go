package document

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Element is a read-only view of one DOM element
type Element struct {
	Tag   string
	Attrs map[string]string

	sel  *goquery.Selection
	text *lazyText
}

type lazyText struct {
	once sync.Once
	val  string
}

func newElement(sel *goquery.Selection) Element {
	e := Element{
		Tag:   goquery.NodeName(sel),
		Attrs: make(map[string]string),
		sel:   sel,
		text:  &lazyText{},
	}
	if n := sel.Get(0); n != nil {
		for _, a := range n.Attr {
			e.Attrs[strings.ToLower(a.Key)] = a.Val
		}
	}
	return e
}

// Text returns the element's visible text, computed on first use
func (e Element) Text() string {
	if e.sel == nil {
		return ""
	}
	e.text.once.Do(func() {
		e.text.val = visibleText(e.sel)
	})
	return e.text.val
}

// Attr returns an attribute value
func (e Element) Attr(name string) string {
	return e.Attrs[strings.ToLower(name)]
}

// Find returns up to limit descendants matching selector
func (e Element) Find(selector string, limit int) []Element {
	if e.sel == nil {
		return nil
	}
	var out []Element
	e.sel.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		out = append(out, newElement(sel))
		return limit <= 0 || len(out) < limit
	})
	return out
}

// HTML returns the outer HTML of the element
func (e Element) HTML() string {
	if e.sel == nil {
		return ""
	}
	h, err := goquery.OuterHtml(e.sel)
	if err != nil {
		return ""
	}
	return h
}

// Next returns the first following sibling matching selector
func (e Element) Next(selector string) (Element, bool) {
	if e.sel == nil {
		return Element{}, false
	}
	next := e.sel.NextAllFiltered(selector).First()
	if next.Length() == 0 {
		return Element{}, false
	}
	return newElement(next), true
}
