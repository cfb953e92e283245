// SPDX-License-Identifier: MPL-2.0

package utcs_test

import "github.com/ampel360/utcs/pkg/utcs"

// testRegistries returns a small fixed snapshot shaped like the embedded default.
func testRegistries() *utcs.Registries {
	domains := []utcs.Domain{
		{Code: "024500", Description: "Aero · Electrical Power System"},
		{Code: "090101", Description: "Quantum · Quantum Navigation System"},
		{Code: "100100", Description: "Space · Orbital Systems"},
	}
	variants := []utcs.Variant{
		{Code: "BWBQ100", Name: "Blended Wing Body Quantum 100", Description: "BWB quantum-enhanced passenger aircraft", Type: "passenger", Category: "Quantum", Status: "active"},
		{Code: "EVTA100", Name: "eVTOL Air Taxi", Description: "Electric air taxi", Type: "urban", Category: "Electric", Status: "active"},
		{Code: "HYBR200", Name: "Hybrid Regional", Description: "Hybrid-electric regional aircraft", Type: "regional", Category: "Hybrid", Status: "development"},
		{Code: "ORBSAT1", Name: "Orbital Satellite", Description: "Orbital satellite bus", Type: "space", Category: "Space", Status: "active"},
		{Code: "STDAC01", Name: "Standard Aircraft", Description: "Conventional airframe", Type: "passenger", Category: "Conventional", Status: "active"},
		{Code: "CARGOV2", Name: "Cargo V2", Description: "Cargo redesign", Type: "cargo", Category: "Conventional", Status: "active"},
	}
	trigrams := []utcs.Trigram{
		{Code: "AVI", Name: "Avionics", Family: "Avionics", Domains: []string{"020-Aero"}, Common: true, Status: "active"},
		{Code: "QNS", Name: "Quantum Navigation", Family: "Quantum Systems", Domains: []string{"090-Quantum"}, Status: "active"},
		{Code: "EPS", Name: "Electric Power", Family: "Electric Propulsion", Domains: []string{"020-Aero"}, Status: "active"},
		{Code: "HEP", Name: "Hybrid-Electric Propulsion", Family: "Hybrid Systems", Domains: []string{"020-Aero"}, Status: "active"},
		{Code: "STR", Name: "Structures", Family: "Airframe", Domains: []string{"020-Aero"}, Common: true, Status: "active"},
		{Code: "OBC", Name: "On-Board Computer", Family: "Space Computing", Domains: []string{"100-Space"}, Status: "active"},
		{Code: "QKD", Name: "Quantum Key Distribution", Family: "Quantum Communications", Domains: []string{"090-Quantum"}, Status: "active"},
		{Code: "ENG", Name: "Engines", Family: "Propulsion", Domains: []string{"020-Aero"}, Common: true, Status: "active"},
		{Code: "FCS", Name: "Flight Controls", Family: "Flight Control", Domains: []string{"020-Aero"}, Common: true, Status: "active"},
		{Code: "LDG", Name: "Landing Gear", Family: "Mechanical", Domains: []string{"020-Aero"}, Common: true, Status: "active"},
	}
	return &utcs.Registries{
		Domains:  catalog(domains, func(d utcs.Domain) string { return d.Code }),
		Variants: catalog(variants, func(v utcs.Variant) string { return v.Code }),
		Trigrams: catalog(trigrams, func(t utcs.Trigram) string { return t.Code }),
	}
}

func catalog[V any](values []V, key func(V) string) *utcs.Catalog[V] {
	entries := make([]utcs.Entry[V], 0, len(values))
	for _, v := range values {
		entries = append(entries, utcs.Entry[V]{Key: key(v), Value: v})
	}
	return utcs.NewCatalog(entries...)
}
