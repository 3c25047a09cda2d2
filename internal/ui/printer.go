package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/petasbytes/nanocode/internal/llm"
	"github.com/petasbytes/nanocode/tools"
	"golang.org/x/term"
)

// Printer writes the session transcript. It satisfies runner.Observer.
type Printer struct {
	out    io.Writer
	md     markdown
	width  int
	params map[string][]string
}

// NewPrinter writes to out. specs give the argument order used for call
// previews. Markdown rendering and the terminal width are only used when out
// is a terminal.
func NewPrinter(out io.Writer, specs []tools.Spec) *Printer {
	p := &Printer{out: out, width: maxSeparatorWidth, params: make(map[string][]string, len(specs))}
	for _, s := range specs {
		names := make([]string, len(s.Params))
		for i, prm := range s.Params {
			names[i] = prm.Name
		}
		p.params[s.Name] = names
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.md = newMarkdown(true)
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			p.width = SeparatorWidth(cols)
		}
	}
	return p
}

// Banner prints "nanocode | provider:model +thinking | cwd".
func (p *Printer) Banner(provider, model string, thinking bool, cwd string) {
	info := provider + ":" + model
	if thinking {
		info += " +thinking"
	}
	fmt.Fprintf(p.out, "%s | %s\n\n", boldStyle.Render("nanocode"), dimStyle.Render(info+" | "+cwd))
}

func (p *Printer) Separator() {
	fmt.Fprintln(p.out, dimStyle.Render(strings.Repeat("─", p.width)))
}

// Notice prints a dim informational line.
func (p *Printer) Notice(msg string) {
	fmt.Fprintln(p.out, dimStyle.Render(msg))
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, successStyle.Render("⏺ "+msg))
}

func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, errorStyle.Render("⏺ Error: "+err.Error()))
}

// Plain prints msg unstyled.
func (p *Printer) Plain(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *Printer) OnThinking(text string) {
	fmt.Fprintf(p.out, "\n%s\n", dimStyle.Render("💭 "+ThinkingPreview(text)))
}

func (p *Printer) OnText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintf(p.out, "\n%s %s\n", textMarker, strings.TrimRight(p.md.render(text), "\n"))
}

func (p *Printer) OnToolCall(call llm.ContentBlock) {
	preview := ArgPreview(call.Input, p.params[call.Name])
	fmt.Fprintf(p.out, "\n%s(%s)\n", toolStyle.Render("⏺ "+ToolTitle(call.Name)), dimStyle.Render(preview))
}

func (p *Printer) OnToolResult(_ llm.ContentBlock, result string) {
	fmt.Fprintf(p.out, "  %s\n", dimStyle.Render("⎿  "+ResultPreview(result)))
}
