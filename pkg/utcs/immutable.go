// SPDX-License-Identifier: MPL-2.0

package utcs

// MsgUnparsable is the single violation reported when either code fails to parse.
const MsgUnparsable = "Unable to parse one or both codes"

// ImmutabilityReport is the outcome of comparing two revisions of a code.
type ImmutabilityReport struct {
	Compliant  bool     `json:"compliant" yaml:"compliant"`
	Violations []string `json:"violations" yaml:"violations"`
	// Changed lists the immutable blocks that differ, in block order.
	Changed []Block `json:"changed" yaml:"changed"`
}

// immutableBlocks are the blocks that may not change after initial publication.
var immutableBlocks = [...]Block{BlockClassification, BlockVariant, BlockSystem}

// CheckImmutable compares two revisions of a code. Only the installation block may change;
// each other differing block yields one violation.
func CheckImmutable(oldCode, newCode string) ImmutabilityReport {
	rep := ImmutabilityReport{Violations: []string{}, Changed: []Block{}}

	before, okOld := Parse(oldCode)
	after, okNew := Parse(newCode)
	if !okOld || !okNew {
		rep.Violations = append(rep.Violations, MsgUnparsable)
		return rep
	}

	for _, b := range immutableBlocks {
		if before.Block(b) != after.Block(b) {
			rep.Changed = append(rep.Changed, b)
			rep.Violations = append(rep.Violations, ViolationMessage(b))
		}
	}
	rep.Compliant = len(rep.Violations) == 0
	return rep
}

// ViolationMessage returns the immutability violation text for block b.
func ViolationMessage(b Block) string {
	return b.Name() + " (Block " + b.String() + ") changed - this violates immutability principle"
}
