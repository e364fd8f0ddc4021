package generator

import (
	"strings"
)

type blockKind int

const (
	blockType blockKind = iota
	blockInterface
	blockEnum
)

// Format re-indents generated declarations by brace depth and terminates
// members and type aliases with semicolons. Comment lines keep their text
// and follow the indentation of the code around them; top-level comments
// are left untouched.
func Format(src string, style Style) string {
	unit := strings.Repeat(" ", style.IndentWidth)
	if style.UseTabs {
		unit = "\t"
	}

	var (
		out       []string
		stack     []blockKind
		inComment bool
	)
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}

		depth := len(stack)
		if inComment || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "//") {
			switch {
			case strings.HasPrefix(trimmed, "/*"):
				inComment = !strings.Contains(trimmed, "*/")
			case inComment && strings.Contains(trimmed, "*/"):
				inComment = false
			}
			if depth == 0 {
				out = append(out, strings.TrimRight(line, " \t"))
				continue
			}
			if strings.HasPrefix(trimmed, "*") {
				trimmed = " " + trimmed
			}
			out = append(out, strings.Repeat(unit, depth)+trimmed)
			continue
		}

		indent := depth
		if strings.HasPrefix(trimmed, "}") && indent > 0 {
			indent--
		}

		var closedDeclaration bool
		first := true
		scanBraces(trimmed, func(open bool) {
			if open {
				kind := blockType
				if first && len(stack) == 0 {
					switch {
					case strings.HasPrefix(trimmed, "export interface "):
						kind = blockInterface
					case strings.HasPrefix(trimmed, "export enum "), strings.HasPrefix(trimmed, "export const enum "):
						kind = blockEnum
					}
				}
				first = false
				stack = append(stack, kind)
				return
			}
			if len(stack) == 0 {
				return
			}
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 && popped != blockType {
				closedDeclaration = true
			}
		})

		if needsSemicolon(trimmed, stack, closedDeclaration) {
			trimmed += ";"
		}
		out = append(out, strings.Repeat(unit, indent)+trimmed)
	}

	result := strings.Join(out, "\n")
	return strings.TrimRight(result, "\n") + "\n"
}

func needsSemicolon(line string, stack []blockKind, closedDeclaration bool) bool {
	if strings.HasSuffix(line, "{") || strings.HasSuffix(line, ";") || strings.HasSuffix(line, ",") {
		return false
	}
	if len(stack) == 0 {
		return !closedDeclaration
	}
	return stack[len(stack)-1] != blockEnum
}

// scanBraces calls fn for every { (open) and } (close) in line that is not
// inside a string literal.
func scanBraces(line string, fn func(open bool)) {
	var quote rune
	escaped := false
	for _, c := range line {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '{':
			fn(true)
		case c == '}':
			fn(false)
		}
	}
}
