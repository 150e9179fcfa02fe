package plan

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrTaskNotFound is returned when an edit targets an id that is not in the document.
var ErrTaskNotFound = errors.New("task not found")

var (
	headerPattern   = regexp.MustCompile(`^- \[( |x|~|!)\] (P\d+\.\d+)\s+(.+)$`)
	propertyPattern = regexp.MustCompile(`^\s+- (\w+):\s*(.*)$`)
)

// span is a half-open byte range [start, end) of the document text.
type span struct {
	start, end int
}

// taskBlock is a parsed task plus the locations of the bytes an edit may touch.
type taskBlock struct {
	task     Task
	marker   span
	status   []span
	assigned []span
}

// Document is a parsed plan that remembers where every editable value lives,
// so status changes rewrite only those bytes.
type Document struct {
	text   string
	blocks []taskBlock
}

// Parse extracts the tasks of a plan document in document order.
// Lines that are neither task headers nor properties are ignored.
func Parse(text string) []Task {
	return ParseDocument(text).Tasks()
}

// ParseDocument parses text and keeps the spans needed for surgical edits.
func ParseDocument(text string) *Document {
	doc := &Document{text: text}
	var current *taskBlock

	for off := 0; off < len(text); {
		next := len(text)
		lineEnd := len(text)
		if i := strings.IndexByte(text[off:], '\n'); i >= 0 {
			lineEnd = off + i
			next = lineEnd + 1
		}
		if lineEnd > off && text[lineEnd-1] == '\r' {
			lineEnd--
		}
		line := text[off:lineEnd]

		if loc := headerPattern.FindStringSubmatchIndex(line); loc != nil {
			doc.blocks = append(doc.blocks, taskBlock{
				task: Task{
					ID:          line[loc[4]:loc[5]],
					Description: strings.TrimSpace(line[loc[6]:loc[7]]),
					Status:      StatusFromMarker(line[loc[2]:loc[3]]),
				},
				marker: span{off + loc[2], off + loc[3]},
			})
			current = &doc.blocks[len(doc.blocks)-1]
		} else if current != nil {
			if loc := propertyPattern.FindStringSubmatchIndex(line); loc != nil {
				key := line[loc[2]:loc[3]]
				value := strings.TrimSpace(line[loc[4]:loc[5]])
				// The value span starts right after the colon so rewrites
				// normalize to "key: value".
				valueSpan := span{off + loc[3] + 1, lineEnd}
				current.setProperty(key, value, valueSpan)
			}
		}

		off = next
	}
	return doc
}

func (b *taskBlock) setProperty(key, value string, valueSpan span) {
	switch key {
	case "scope":
		b.task.Scope = value
	case "validation":
		b.task.Validation = value
	case "assigned_thread":
		b.task.AssignedThread = value
		b.assigned = append(b.assigned, valueSpan)
	case "depends_on":
		b.task.DependsOn = normalizeDependsOn(value)
	case "status":
		// The checkbox is authoritative; the line is only tracked for rewrites.
		b.status = append(b.status, valueSpan)
	}
}

// Tasks returns the parsed tasks in document order.
func (d *Document) Tasks() []Task {
	tasks := make([]Task, len(d.blocks))
	for i, b := range d.blocks {
		tasks[i] = b.task
	}
	return tasks
}

// Text returns the document text the Document was parsed from.
func (d *Document) Text() string {
	return d.text
}

type edit struct {
	span
	replacement string
}

// UpdateStatus returns the document text with the given task's checkbox
// marker, status line and (when threadURL is non-empty) assigned_thread line
// rewritten. Every other byte is preserved. Missing property lines are not
// inserted. When the id appears more than once, the first task wins.
func (d *Document) UpdateStatus(id string, status Status, threadURL string) (string, error) {
	if !status.IsValid() {
		return d.text, &InvalidStatusError{Value: string(status)}
	}

	var block *taskBlock
	for i := range d.blocks {
		if d.blocks[i].task.ID == id {
			block = &d.blocks[i]
			break
		}
	}
	if block == nil {
		return d.text, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	edits := []edit{{span: block.marker, replacement: status.Marker()}}
	for _, s := range block.status {
		edits = append(edits, edit{span: s, replacement: " " + status.String()})
	}
	if threadURL != "" {
		for _, s := range block.assigned {
			edits = append(edits, edit{span: s, replacement: " " + threadURL})
		}
	}
	return applyEdits(d.text, edits), nil
}

func applyEdits(text string, edits []edit) string {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.start])
		b.WriteString(e.replacement)
		last = e.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// UpdateStatus is a convenience wrapper around ParseDocument and Document.UpdateStatus.
func UpdateStatus(text, id string, status Status, threadURL string) (string, error) {
	return ParseDocument(text).UpdateStatus(id, status, threadURL)
}
