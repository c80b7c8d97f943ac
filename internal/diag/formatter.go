package diag

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Formatter renders diagnostics in a Rust-style format with source
// snippets.
type Formatter struct {
	sourceCache map[string]string
}

func NewFormatter() *Formatter {
	return &Formatter{sourceCache: make(map[string]string)}
}

func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format prints a diagnostic to stderr.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	for _, span := range spans {
		filename := span.Span.File
		if filename == "" {
			filename = "<unknown>"
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	f.printHeader(d)
	for filename, fileSpans := range spansByFile {
		src, err := f.LoadSource(filename)
		if err != nil {
			f.formatSimple(d)
			return
		}
		f.printFileSpans(filename, src, fileSpans)
	}
	f.printHelp(d)
}

func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}
	if d.Code != "" {
		fmt.Fprintf(os.Stderr, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printFileSpans(filename, src string, spans []LabeledSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.Start.Line != spans[j].Span.Start.Line {
			return spans[i].Span.Start.Line < spans[j].Span.Start.Line
		}
		return spans[i].Span.Start.Column < spans[j].Span.Start.Column
	})

	spansByLine := make(map[int][]LabeledSpan)
	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	for _, span := range spans {
		line := span.Span.Start.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)
	if len(lineNumbers) == 0 {
		return
	}

	startLine, endLine := lineNumbers[0], lineNumbers[len(lineNumbers)-1]
	contextStart := max(1, startLine-2)
	contextEnd := min(maxLine, endLine+2)
	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))

	fmt.Fprintf(os.Stderr, "  --> %s\n", filename)
	fmt.Fprintf(os.Stderr, "   %s |\n", strings.Repeat(" ", lineNumWidth))

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineSpans := spansByLine[lineNum]
		lineContent := ""
		if lineNum <= len(lines) {
			lineContent = lines[lineNum-1]
		}
		lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
		fmt.Fprintf(os.Stderr, " %s | %s\n", lineNumStr, lineContent)
		if len(lineSpans) > 0 {
			f.printUnderlines(lineNumWidth, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(os.Stderr, "   %s |\n", strings.Repeat(" ", lineNumWidth))
}

func (f *Formatter) printUnderlines(lineNumWidth int, lineContent string, spans []LabeledSpan) {
	width := len(lineContent)
	if width == 0 {
		width = 1
	}
	underline := make([]byte, width)
	for i := range underline {
		underline[i] = ' '
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Span.Start.Column < spans[j].Span.Start.Column
	})

	spanWidth := func(s LabeledSpan) int {
		w := s.Span.End.Offset - s.Span.Start.Offset
		if w < 1 {
			w = 1
		}
		return w
	}

	for _, span := range spans {
		if span.Style != "primary" {
			continue
		}
		start := max(0, span.Span.Start.Column-1)
		end := min(len(underline), start+spanWidth(span))
		for i := start; i < end; i++ {
			underline[i] = '^'
		}
	}
	for _, span := range spans {
		if span.Style == "primary" {
			continue
		}
		start := max(0, span.Span.Start.Column-1)
		end := min(len(underline), start+spanWidth(span))
		for i := start; i < end; i++ {
			if underline[i] == ' ' {
				underline[i] = '~'
			}
		}
	}

	rightmost := -1
	for i := len(underline) - 1; i >= 0; i-- {
		if underline[i] != ' ' {
			rightmost = i
			break
		}
	}
	if rightmost == -1 {
		return
	}

	fmt.Fprintf(os.Stderr, "   %s | %s", strings.Repeat(" ", lineNumWidth), string(underline))

	primaryLabel := ""
	var secondaryLabels []string
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		if span.Style == "primary" {
			primaryLabel = span.Label
		} else {
			secondaryLabels = append(secondaryLabels, span.Label)
		}
	}
	if primaryLabel != "" {
		fmt.Fprintf(os.Stderr, " %s", primaryLabel)
	}
	fmt.Fprintln(os.Stderr)

	for _, label := range secondaryLabels {
		fmt.Fprintf(os.Stderr, "   %s |", strings.Repeat(" ", lineNumWidth))
		labelPos := len(lineContent) + 1
		if labelPos < rightmost+2 {
			labelPos = rightmost + 2
		}
		if labelPos > len(lineContent) {
			fmt.Fprintf(os.Stderr, "%s", strings.Repeat(" ", labelPos-len(lineContent)))
		}
		fmt.Fprintf(os.Stderr, " %s\n", label)
	}
}

func (f *Formatter) printHelp(d Diagnostic) {
	for _, step := range d.ProofChain {
		fmt.Fprintln(os.Stderr)
		if step.Span.IsValid() {
			fmt.Fprintf(os.Stderr, "  = note: %s\n", step.Message)
			fmt.Fprintf(os.Stderr, "           at %s\n", step.Span.String())
		} else {
			fmt.Fprintf(os.Stderr, "  = note: %s\n", step.Message)
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "help: %s\n", d.Help)
	}
}

func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(os.Stderr, "  --> %s\n", d.Span.String())
	}
	f.printHelp(d)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
