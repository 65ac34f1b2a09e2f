// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"context"

	"github.com/specialistvlad/pathwaygen/internal/docval"
)

// Decoder is the interface for a format-specific document reader.
type Decoder interface {
	// Extensions lists the file extensions (with the dot) this decoder
	// reads, most preferred first.
	Extensions() []string

	// DecodePathway reads a pathway document and returns its ordered step
	// identifiers.
	DecodePathway(ctx context.Context, path string) ([]string, error)

	// DecodeStep reads the document of step id. The returned object keeps
	// the authored member order.
	DecodeStep(ctx context.Context, id, path string) (*docval.Object, error)
}
