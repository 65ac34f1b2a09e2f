// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// Pathway is the ordered list of step identifiers.
type Pathway struct {
	Steps         []string
	FSInformation *FSInfo
}

// NewPathway creates a Pathway. A nil step list becomes an empty one so
// that the manifest of an empty pathway is `[]` rather than `null`.
func NewPathway(steps []string, filePath string) *Pathway {
	if steps == nil {
		steps = []string{}
	}
	return &Pathway{
		Steps:         steps,
		FSInformation: NewFSInfo(filePath),
	}
}

// Duplicates returns every identifier that occurs more than once, in the
// order of its second occurrence.
func (p *Pathway) Duplicates() []string {
	seen := make(map[string]int, len(p.Steps))
	var dups []string
	for _, id := range p.Steps {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
