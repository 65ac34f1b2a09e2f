// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of a content pathway: the
// ordered list of step identifiers and the step documents it points at.
//
// # Core Concepts
//
//   - Pathway: the ordered curriculum. Its order is both the processing
//     order of a run and the content of the published manifest.
//
//   - Step: one unit of content, identified by a stable string id and
//     carrying a discriminator `type` plus kind-specific members.
//
//   - FSInfo: metadata linking a Pathway or Step back to its source file,
//     so that every error can name the document an author has to fix.
//
//   - Decoder: the format-specific reader of pathway and step documents.
//     Concrete implementations live in hcl_adapter and yaml_adapter.
//
// Why keep the payload opaque?
//
// The pipeline publishes whatever the author wrote. Beyond the `type`
// discriminator (and the per-kind checks of the registry package) no schema
// is imposed, so the payload is kept as an ordered docval.Object rather
// than decoded into per-kind Go structs.
package model
