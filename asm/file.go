package asm

import (
	"os"
)

// ParseFile reads and parses an assembly source file from disk,
// including ".include"/".inc" splicing. It is the recommended entry
// point for parsing files off disk; ParseSource covers in-memory
// sources (tests, REPL-style tooling).
//
// filePath is passed through to ParseSource unchanged, directory
// component included: relative ".include" targets resolve against
// filepath.Dir(filePath), not the process's working directory, so a
// source file parsed from outside the cwd still splices includes that
// sit next to it on disk (spec.md §4.3).
func ParseFile(filePath string) (*Program, error) {
	return ParseFileWithIncludeDirs(filePath, nil)
}

// ParseFileWithIncludeDirs is like ParseFile, but an ".include" that
// doesn't resolve against the input file's own directory is also
// tried against each of includeDirs in order (config's
// [assemble].include_dirs / a future "-I" flag).
func ParseFileWithIncludeDirs(filePath string, includeDirs []string) (*Program, error) {
	content, err := os.ReadFile(filePath) // #nosec G304 -- user-provided assembly file path
	if err != nil {
		return nil, err
	}
	return ParseSourceWithIncludeDirs(string(content), filePath, includeDirs)
}

// ParseSource parses src as if it were read from a file named filename,
// which anchors relative ".include" resolution and error messages.
// filename may be "" for anonymous sources; includes then resolve
// relative to the process's working directory.
func ParseSource(src, filename string) (*Program, error) {
	return ParseSourceWithIncludeDirs(src, filename, nil)
}

// ParseSourceWithIncludeDirs is like ParseSource, with an extra include
// search path (see ParseFileWithIncludeDirs).
func ParseSourceWithIncludeDirs(src, filename string, includeDirs []string) (*Program, error) {
	p := NewParserWithIncludeDirs(src, filename, includeDirs)
	return p.Parse()
}
