package asm

import (
	"os"
	"path/filepath"
)

// pushInclude resolves filename relative to the active tokenizer's
// directory (falling back to each of the parser's includeDirs, in
// order, if it isn't found there), rejects cyclic includes, reads the
// file, and pushes a new Tokenizer for it onto the stack. Cycle
// detection happens before the file is opened, per spec: no byte from
// a cyclically-included file is ever read.
func (p *Parser) pushInclude(tok Token, filename string) error {
	joined, absPath, err := p.resolveInclude(filename)
	if err != nil {
		return p.errorAt(tok, ErrorInclude, "cannot resolve include path: "+err.Error())
	}

	for _, seen := range p.abs {
		if seen != "" && seen == absPath {
			return p.errorAt(tok, ErrorInclude, "cyclic include: "+absPath)
		}
	}

	content, err := os.ReadFile(joined) // #nosec G304 -- user-provided include path, resolved relative to the including source or an include search directory
	if err != nil {
		return p.errorAt(tok, ErrorInclude, "include file not found: "+err.Error())
	}

	p.tzStack = append(p.tzStack, NewTokenizer(string(content), joined))
	p.dirs = append(p.dirs, filepath.Dir(absPath))
	p.abs = append(p.abs, absPath)
	return nil
}

// resolveInclude tries filename relative to the active tokenizer's
// directory first, then relative to each configured include search
// directory, returning the first candidate that exists on disk. If
// none exist, it falls back to the base-directory candidate so the
// caller's "not found" error names the expected location.
func (p *Parser) resolveInclude(filename string) (joined, absPath string, err error) {
	candidates := make([]string, 0, 1+len(p.includeDirs))
	candidates = append(candidates, filepath.Join(p.dirs[len(p.dirs)-1], filename))
	for _, dir := range p.includeDirs {
		candidates = append(candidates, filepath.Join(dir, filename))
	}

	for _, candidate := range candidates {
		if _, statErr := os.Stat(candidate); statErr == nil {
			abs, absErr := filepath.Abs(candidate)
			if absErr != nil {
				return "", "", absErr
			}
			return candidate, abs, nil
		}
	}

	abs, absErr := filepath.Abs(candidates[0])
	if absErr != nil {
		return "", "", absErr
	}
	return candidates[0], abs, nil
}

// baseDirOf returns the directory relative-includes resolve against for
// a source with the given filename, falling back to the process's
// working directory when filename carries no path (spec.md §4.3).
func baseDirOf(filename string) string {
	if filename == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	return filepath.Dir(filename)
}

func absPathOrEmpty(filename string) string {
	if filename == "" {
		return ""
	}
	if p, err := filepath.Abs(filename); err == nil {
		return p
	}
	return filename
}
