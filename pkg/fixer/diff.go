package fixer

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

const noNewlineMarker = "\\ No newline at end of file\n"

type lineOp struct {
	kind byte
	text string
}

// UnifiedDiff renders the line-level difference between oldText and newText
// in unified format. Equal inputs yield an empty string.
func UnifiedDiff(name, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	ops := diffLines(oldText, newText)

	var b strings.Builder

	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)

	for i := 0; i < len(ops); {
		for i < len(ops) && ops[i].kind == ' ' {
			i++
		}

		if i == len(ops) {
			break
		}

		start := max(0, i-diffContext)
		end := hunkEnd(ops, i)

		writeHunk(&b, ops, start, end)

		i = end
	}

	return b.String()
}

func diffLines(oldText, newText string) []lineOp {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var ops []lineOp

	for _, d := range diffs {
		kind := byte(' ')

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = '-'
		case diffmatchpatch.DiffInsert:
			kind = '+'
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				ops = append(ops, lineOp{kind: kind, text: line})
			}
		}
	}

	return ops
}

// hunkEnd returns the exclusive end of the hunk whose first change is at
// first. Changes separated by at most twice the context share a hunk.
func hunkEnd(ops []lineOp, first int) int {
	end := first

	for end < len(ops) {
		if ops[end].kind != ' ' {
			end++

			continue
		}

		run := end
		for run < len(ops) && ops[run].kind == ' ' {
			run++
		}

		if run == len(ops) || run-end > 2*diffContext {
			return min(len(ops), end+diffContext)
		}

		end = run
	}

	return end
}

func writeHunk(b *strings.Builder, ops []lineOp, start, end int) {
	oldStart, newStart := 1, 1

	for _, op := range ops[:start] {
		if op.kind != '+' {
			oldStart++
		}

		if op.kind != '-' {
			newStart++
		}
	}

	oldCount, newCount := 0, 0

	for _, op := range ops[start:end] {
		if op.kind != '+' {
			oldCount++
		}

		if op.kind != '-' {
			newCount++
		}
	}

	if oldCount == 0 {
		oldStart--
	}

	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)

	for _, op := range ops[start:end] {
		b.WriteByte(op.kind)
		b.WriteString(op.text)

		if !strings.HasSuffix(op.text, "\n") {
			b.WriteString("\n" + noNewlineMarker)
		}
	}
}
