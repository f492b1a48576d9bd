package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/notekeep/pkg/models"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?(.*)`)

const timestampLayout = "2006-01-02 15:04:05"

// Frontmatter is the structured metadata at the top of an exported note.
// It carries everything needed to round-trip a note through markdown and
// back without losing identity or timestamps.
type Frontmatter struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Pinned   bool   `yaml:"pinned,omitempty"`
	Created  string `yaml:"created"`
	Modified string `yaml:"modified"`
}

// Parse extracts frontmatter from content and returns the parsed data and
// body. Content without a frontmatter block comes back unchanged with a
// nil Frontmatter.
func Parse(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return nil, content, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return &fm, matches[2], nil
}

// Build creates the YAML frontmatter block from a Frontmatter struct.
// Fields are written in a fixed order so exports diff cleanly.
func Build(fm *Frontmatter) string {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("id: %s\n", fm.ID))
	sb.WriteString(fmt.Sprintf("title: %s\n", quoteIfNeeded(fm.Title)))
	if fm.Pinned {
		sb.WriteString("pinned: true\n")
	}
	sb.WriteString(fmt.Sprintf("created: %s\n", fm.Created))
	sb.WriteString(fmt.Sprintf("modified: %s\n", fm.Modified))
	sb.WriteString("---")

	return sb.String()
}

// BuildContent combines frontmatter and body into a complete document
func BuildContent(fm *Frontmatter, body string) string {
	header := Build(fm)
	if !strings.HasPrefix(body, "\n") {
		return header + "\n\n" + body
	}
	return header + "\n" + body
}

// FromItem derives the frontmatter for a note
func FromItem(it models.Item) *Frontmatter {
	return &Frontmatter{
		ID:       it.ID,
		Title:    it.Title,
		Pinned:   it.Pinned,
		Created:  FormatTimestamp(it.CreatedAt),
		Modified: FormatTimestamp(it.UpdatedAt),
	}
}

// ToItem turns parsed frontmatter and a body back into a note under the
// given parent. Missing or malformed timestamps fall back to now; a
// missing id gets a fresh one.
func ToItem(fm *Frontmatter, body string, parentID *string) models.Item {
	it := models.Item{
		Type:     models.TypeNote,
		Title:    fm.Title,
		Content:  body,
		ParentID: parentID,
		Pinned:   fm.Pinned,
		ID:       fm.ID,
	}
	if it.ID == "" {
		it.ID = models.NewID()
	}
	if ms, err := ParseTimestamp(fm.Created); err == nil {
		it.CreatedAt = ms
	}
	if ms, err := ParseTimestamp(fm.Modified); err == nil {
		it.UpdatedAt = ms
	}
	return models.Normalize(it)
}

// FormatTimestamp renders a millisecond epoch in the frontmatter format
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(timestampLayout)
}

// ParseTimestamp parses a frontmatter timestamp back to millisecond epoch
func ParseTimestamp(s string) (int64, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// quoteIfNeeded quotes a YAML scalar that would otherwise be misread
func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",:[]{}\"'#") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
