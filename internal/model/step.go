// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pathwaygen/internal/docval"
)

// TypeAttribute is the discriminator every step document must carry.
const TypeAttribute = "type"

// ErrMissingType is returned when a step document is empty or its
// discriminator is absent, empty or not a string.
var ErrMissingType = errors.New("no data or type found")

// Step is one loaded step document.
type Step struct {
	ID            string
	Type          string
	Data          *docval.Object
	FSInformation *FSInfo
}

// NewStep validates the decoded document of step id and wraps it in a Step.
func NewStep(id string, data *docval.Object, filePath string) (*Step, error) {
	if data.Len() == 0 {
		return nil, fmt.Errorf("%w for step %q", ErrMissingType, id)
	}
	raw, ok := data.Get(TypeAttribute)
	if !ok {
		return nil, fmt.Errorf("%w for step %q", ErrMissingType, id)
	}
	kind, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w for step %q: %q must be a string, got %s", ErrMissingType, id, TypeAttribute, docval.TypeName(raw))
	}
	if kind == "" {
		return nil, fmt.Errorf("%w for step %q", ErrMissingType, id)
	}

	return &Step{
		ID:            id,
		Type:          kind,
		Data:          data,
		FSInformation: NewFSInfo(filePath),
	}, nil
}
