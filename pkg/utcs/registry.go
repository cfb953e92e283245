// SPDX-License-Identifier: MPL-2.0

package utcs

import (
	"sort"
	"strings"
)

// areaSeparator splits a domain description into area and category.
const areaSeparator = " · "

type (
	// Entry is one key/descriptor pair used to build a Catalog.
	Entry[V any] struct {
		Key   string
		Value V
	}

	// Catalog is a read-only, insertion-ordered lookup table.
	// A nil *Catalog behaves as an empty catalog.
	Catalog[V any] struct {
		keys  []string
		byKey map[string]V
	}

	// Domain describes one classification of the domain table.
	Domain struct {
		// Code is the 6-digit classification.
		Code string `json:"code" yaml:"code"`
		// Description reads "Area · Category", e.g. "Quantum · Quantum Navigation System".
		Description string `json:"description" yaml:"description"`
	}

	// Variant describes one entry of the product variant catalogue.
	Variant struct {
		Code           string            `json:"code" yaml:"code"`
		Name           string            `json:"name" yaml:"name"`
		Description    string            `json:"description" yaml:"description"`
		Type           string            `json:"type" yaml:"type"`
		Category       string            `json:"category" yaml:"category"`
		Status         string            `json:"status" yaml:"status"`
		Specifications map[string]string `json:"specifications,omitempty" yaml:"specifications,omitempty"`
		LastModified   string            `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	}

	// Trigram describes one registered system/technology trigram.
	Trigram struct {
		Code        string `json:"code" yaml:"code"`
		Name        string `json:"name" yaml:"name"`
		Family      string `json:"family" yaml:"family"`
		Description string `json:"description" yaml:"description"`
		// Domains lists "NNN-Area" tags. Informational only.
		Domains []string `json:"domains" yaml:"domains"`
		// Common marks frequently used trigrams offered by the suggestion engine.
		Common       bool     `json:"common" yaml:"common"`
		Status       string   `json:"status" yaml:"status"`
		Examples     []string `json:"examples,omitempty" yaml:"examples,omitempty"`
		LastModified string   `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	}

	// Registries bundles the three reference tables a code is validated against.
	// Registries is never mutated by this package and may be shared freely.
	Registries struct {
		Domains  *Catalog[Domain]
		Variants *Catalog[Variant]
		Trigrams *Catalog[Trigram]
	}
)

// NewCatalog builds a catalog in entry order. A repeated key keeps the position of
// its first occurrence and the value of its last.
func NewCatalog[V any](entries ...Entry[V]) *Catalog[V] {
	c := &Catalog[V]{
		keys:  make([]string, 0, len(entries)),
		byKey: make(map[string]V, len(entries)),
	}
	for _, e := range entries {
		if _, seen := c.byKey[e.Key]; !seen {
			c.keys = append(c.keys, e.Key)
		}
		c.byKey[e.Key] = e.Value
	}
	return c
}

// Lookup returns the descriptor stored under key.
func (c *Catalog[V]) Lookup(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	v, ok := c.byKey[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Catalog[V]) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Len returns the number of entries.
func (c *Catalog[V]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a copy of the keys in catalog order.
func (c *Catalog[V]) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Values returns the descriptors in catalog order.
func (c *Catalog[V]) Values() []V {
	if c == nil {
		return nil
	}
	out := make([]V, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.byKey[k])
	}
	return out
}

// Filter returns the descriptors, in catalog order, for which keep returns true.
func (c *Catalog[V]) Filter(keep func(key string, v V) bool) []V {
	if c == nil {
		return nil
	}
	var out []V
	for _, k := range c.keys {
		if v := c.byKey[k]; keep(k, v) {
			out = append(out, v)
		}
	}
	return out
}

// Area returns the part of the description before " · ".
func (d Domain) Area() string {
	area, _, _ := strings.Cut(d.Description, areaSeparator)
	return area
}

// Category returns the part of the description after " · ", or "" if there is none.
func (d Domain) Category() string {
	_, category, _ := strings.Cut(d.Description, areaSeparator)
	return category
}

// Classification returns the domain table entry for a classification code.
func (r *Registries) Classification(code string) (Domain, bool) {
	if r == nil {
		return Domain{}, false
	}
	return r.Domains.Lookup(code)
}

// Variant returns the product variant catalogue entry for a variant code.
func (r *Registries) Variant(code string) (Variant, bool) {
	if r == nil {
		return Variant{}, false
	}
	return r.Variants.Lookup(code)
}

// Trigram returns the trigram registry entry for a system code.
func (r *Registries) Trigram(code string) (Trigram, bool) {
	if r == nil {
		return Trigram{}, false
	}
	return r.Trigrams.Lookup(code)
}

// SearchDomains returns domains whose description contains query (case-insensitive)
// or whose code contains query.
func (r *Registries) SearchDomains(query string) []Domain {
	if r == nil {
		return nil
	}
	q := strings.ToLower(query)
	return r.Domains.Filter(func(code string, d Domain) bool {
		return strings.Contains(strings.ToLower(d.Description), q) || strings.Contains(code, query)
	})
}

// DomainsByArea returns the domains of one area ("Aero", "Space", ...).
func (r *Registries) DomainsByArea(area string) []Domain {
	if r == nil {
		return nil
	}
	return r.Domains.Filter(func(_ string, d Domain) bool { return d.Area() == area })
}

// Areas returns the distinct domain areas in first-seen order.
func (r *Registries) Areas() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, d := range r.Domains.Values() {
		a := d.Area()
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// SearchVariants matches query case-insensitively against code, name, description
// and category.
func (r *Registries) SearchVariants(query string) []Variant {
	if r == nil {
		return nil
	}
	q := strings.ToLower(query)
	return r.Variants.Filter(func(_ string, v Variant) bool {
		return containsFold(q, v.Code, v.Name, v.Description, v.Category)
	})
}

// VariantsByType returns variants of one type ("passenger", "quantum", ...).
func (r *Registries) VariantsByType(typ string) []Variant {
	if r == nil {
		return nil
	}
	return r.Variants.Filter(func(_ string, v Variant) bool { return v.Type == typ })
}

// VariantsByStatus returns variants with one lifecycle status.
func (r *Registries) VariantsByStatus(status string) []Variant {
	if r == nil {
		return nil
	}
	return r.Variants.Filter(func(_ string, v Variant) bool { return v.Status == status })
}

// VariantCategories returns the sorted distinct variant categories.
func (r *Registries) VariantCategories() []string {
	if r == nil {
		return nil
	}
	return sortedDistinct(r.Variants.Values(), func(v Variant) string { return v.Category })
}

// SearchTrigrams matches query case-insensitively against code, name, family and
// description.
func (r *Registries) SearchTrigrams(query string) []Trigram {
	if r == nil {
		return nil
	}
	q := strings.ToLower(query)
	return r.Trigrams.Filter(func(_ string, t Trigram) bool {
		return containsFold(q, t.Code, t.Name, t.Family, t.Description)
	})
}

// TrigramsByFamily returns trigrams whose family contains family (case-insensitive).
func (r *Registries) TrigramsByFamily(family string) []Trigram {
	if r == nil {
		return nil
	}
	q := strings.ToLower(family)
	return r.Trigrams.Filter(func(_ string, t Trigram) bool {
		return strings.Contains(strings.ToLower(t.Family), q)
	})
}

// CommonTrigrams returns the trigrams flagged as frequently used.
func (r *Registries) CommonTrigrams() []Trigram {
	if r == nil {
		return nil
	}
	return r.Trigrams.Filter(func(_ string, t Trigram) bool { return t.Common })
}

// TrigramFamilies returns the sorted distinct trigram families.
func (r *Registries) TrigramFamilies() []string {
	if r == nil {
		return nil
	}
	return sortedDistinct(r.Trigrams.Values(), func(t Trigram) string { return t.Family })
}

func containsFold(lowerQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

func sortedDistinct[V any](values []V, key func(V) string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[key(v)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
