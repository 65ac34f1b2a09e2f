// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "path/filepath"

// FSInfo records the document a model object was read from.
type FSInfo struct {
	FilePath string
}

func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// Format returns the document format, which is its file extension
// without the dot (e.g. "hcl").
func (f *FSInfo) Format() string {
	if f == nil {
		return ""
	}
	ext := filepath.Ext(f.FilePath)
	if ext == "" {
		return ""
	}
	return ext[1:]
}
