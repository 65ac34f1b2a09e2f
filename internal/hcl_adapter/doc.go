// Package hcl_adapter provides the HCL implementation of model.Decoder.
// Step documents are flat lists of attributes whose expressions may call a
// small function library and refer to `step.id`; the decoder evaluates them
// while keeping the member order the author wrote.
package hcl_adapter
