// Package prompt assembles the system prompt: a fixed preamble naming the
// working directory, optional AGENT.md instructions and loaded skills.
package prompt

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const AgentFile = "AGENT.md"

// System is the assembled system prompt plus what went into it.
type System struct {
	Text string
	// AgentLoaded reports whether AGENT.md contributed instructions.
	AgentLoaded bool
	Skills      []Skill
}

// Build assembles the prompt for cwd. skillsDir is resolved against cwd
// when relative; an empty skillsDir disables skills.
func Build(cwd, skillsDir string) (System, error) {
	var sys System
	var b strings.Builder
	b.WriteString("Concise coding assistant. cwd: ")
	b.WriteString(cwd)

	agent, err := os.ReadFile(filepath.Join(cwd, AgentFile))
	switch {
	case err == nil:
		b.WriteString("\n\n<agent_instructions>\n")
		b.WriteString(strings.TrimSpace(string(agent)))
		b.WriteString("\n</agent_instructions>")
		sys.AgentLoaded = true
	case !errors.Is(err, fs.ErrNotExist):
		return System{}, err
	}

	if skillsDir != "" {
		if !filepath.IsAbs(skillsDir) {
			skillsDir = filepath.Join(cwd, skillsDir)
		}
		if sys.Skills, err = LoadSkills(skillsDir); err != nil {
			return System{}, err
		}
		for _, s := range sys.Skills {
			b.WriteString("\n\n")
			b.WriteString(s.block())
		}
	}

	sys.Text = b.String()
	return sys, nil
}
