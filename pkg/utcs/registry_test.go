// SPDX-License-Identifier: MPL-2.0

package utcs_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ampel360/utcs/pkg/utcs"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	c := utcs.NewCatalog(
		utcs.Entry[int]{Key: "b", Value: 1},
		utcs.Entry[int]{Key: "a", Value: 2},
		utcs.Entry[int]{Key: "b", Value: 3},
	)

	if diff := cmp.Diff([]string{"b", "a"}, c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 2}, c.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if v, ok := c.Lookup("b"); !ok || v != 3 {
		t.Errorf("Lookup(b) = %d, %v", v, ok)
	}
	if c.Has("z") {
		t.Error("Has(z) = true")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	keys := c.Keys()
	keys[0] = "mutated"
	if c.Keys()[0] != "b" {
		t.Error("Keys() exposes internal state")
	}

	var nilCat *utcs.Catalog[int]
	if nilCat.Has("a") || nilCat.Len() != 0 || nilCat.Keys() != nil {
		t.Error("nil catalog should behave as empty")
	}
}

func TestDomain_AreaCategory(t *testing.T) {
	t.Parallel()

	d := utcs.Domain{Code: "090101", Description: "Quantum · Quantum Navigation System"}
	if d.Area() != "Quantum" || d.Category() != "Quantum Navigation System" {
		t.Errorf("Area/Category = %q/%q", d.Area(), d.Category())
	}
	plain := utcs.Domain{Description: "Standalone"}
	if plain.Area() != "Standalone" || plain.Category() != "" {
		t.Errorf("Area/Category = %q/%q", plain.Area(), plain.Category())
	}
}

func TestRegistries_Queries(t *testing.T) {
	t.Parallel()

	reg := testRegistries()

	codes := func(ts []utcs.Trigram) []string {
		out := []string{}
		for _, tr := range ts {
			out = append(out, tr.Code)
		}
		return out
	}

	if got := len(reg.SearchDomains("quantum")); got != 1 {
		t.Errorf("SearchDomains(quantum) = %d results, want 1", got)
	}
	if got := len(reg.SearchDomains("0245")); got != 1 {
		t.Errorf("SearchDomains(0245) = %d results, want 1", got)
	}
	if diff := cmp.Diff([]string{"Aero", "Quantum", "Space"}, reg.Areas()); diff != "" {
		t.Errorf("Areas() mismatch (-want +got):\n%s", diff)
	}
	if got := reg.DomainsByArea("Space"); len(got) != 1 || got[0].Code != "100100" {
		t.Errorf("DomainsByArea(Space) = %+v", got)
	}
	if got := reg.SearchVariants("hybrid"); len(got) != 1 || got[0].Code != "HYBR200" {
		t.Errorf("SearchVariants(hybrid) = %+v", got)
	}
	if got := reg.VariantsByType("passenger"); len(got) != 2 {
		t.Errorf("VariantsByType(passenger) = %d, want 2", len(got))
	}
	if got := reg.VariantsByStatus("development"); len(got) != 1 {
		t.Errorf("VariantsByStatus(development) = %d, want 1", len(got))
	}
	wantCats := []string{"Conventional", "Electric", "Hybrid", "Quantum", "Space"}
	if diff := cmp.Diff(wantCats, reg.VariantCategories()); diff != "" {
		t.Errorf("VariantCategories() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"QNS", "QKD"}, codes(reg.TrigramsByFamily("quantum"))); diff != "" {
		t.Errorf("TrigramsByFamily mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"AVI", "STR", "ENG", "FCS", "LDG"}, codes(reg.CommonTrigrams())); diff != "" {
		t.Errorf("CommonTrigrams mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"OBC"}, codes(reg.SearchTrigrams("on-board"))); diff != "" {
		t.Errorf("SearchTrigrams mismatch (-want +got):\n%s", diff)
	}
	if got := reg.TrigramFamilies(); len(got) != 10 {
		t.Errorf("TrigramFamilies() = %v, want 10 families", got)
	}

	var nilReg *utcs.Registries
	if _, ok := nilReg.Trigram("QNS"); ok || nilReg.SearchDomains("x") != nil {
		t.Error("nil registries should be empty")
	}
}
