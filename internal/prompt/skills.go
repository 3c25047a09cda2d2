package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is a markdown instruction file with a YAML frontmatter header.
type Skill struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	License     string `yaml:"license"`
	// Content is the markdown body after the frontmatter.
	Content string `yaml:"-"`
}

var fence = []byte("---")

// ParseSkill reads the frontmatter and body of one skill file. A file
// without frontmatter or without a name is not a skill.
func ParseSkill(data []byte) (Skill, bool) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, append(fence, '\n')) {
		return Skill{}, false
	}
	rest := data[len(fence)+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return Skill{}, false
	}
	header := rest[:end]
	body := rest[end+len("\n---"):]
	// The closing fence must sit on its own line.
	if len(body) > 0 && body[0] != '\n' {
		return Skill{}, false
	}

	var s Skill
	if err := yaml.Unmarshal(header, &s); err != nil {
		return Skill{}, false
	}
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Skill{}, false
	}
	s.Content = strings.TrimSpace(string(body))
	return s, true
}

// LoadSkills reads every *.md file in dir, sorted by name. A missing
// directory yields no skills; files that are not skills are skipped. When
// two files declare the same name the later file wins.
func LoadSkills(dir string) ([]Skill, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	byName := map[string]Skill{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if s, ok := ParseSkill(data); ok {
			byName[s.Name] = s
		}
	}
	out := make([]Skill, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FormatSkills renders the /skills listing.
func FormatSkills(skills []Skill) string {
	if len(skills) == 0 {
		return "No skills available"
	}
	var b strings.Builder
	for i, s := range skills {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• %s: %s", s.Name, s.Description)
		if s.License != "" {
			fmt.Fprintf(&b, "\n    License: %s", s.License)
		}
	}
	return b.String()
}

func (s Skill) block() string {
	return fmt.Sprintf("<skill name=%q>\n%s\n</skill>", s.Name, s.Content)
}
