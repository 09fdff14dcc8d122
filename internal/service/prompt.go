package service

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/todo-summary-api/internal/domain"
)

// DefaultPromptTemplate is the instruction sent to the model. It receives
// .Tasks, the rendered task list, and .Count, the number of pending items.
const DefaultPromptTemplate = "Check out these Pending's, and complete! Here are your pending to-do items:\n\n" +
	"{{.Tasks}}\n\n" +
	"Please summarize them concisely and professionally, suitable for a team update or personal reminder."

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FormatTaskList renders one "- title" line per todo, preserving order.
// Line breaks inside a title are folded to spaces so every item stays on one line.
func FormatTaskList(todos []*domain.Todo) string {
	lines := make([]string, 0, len(todos))
	for _, todo := range todos {
		lines = append(lines, "- "+lineBreaks.Replace(todo.Title))
	}
	return strings.Join(lines, "\n")
}

type promptData struct {
	Tasks string
	Count int
}

// PromptTemplate turns a pending set into the model prompt.
type PromptTemplate struct {
	tmpl *template.Template
}

// NewPromptTemplate parses text and checks that it renders.
func NewPromptTemplate(text string) (*PromptTemplate, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	p := &PromptTemplate{tmpl: tmpl}
	if _, err := p.render(promptData{Tasks: "- example", Count: 1}); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}
	return p, nil
}

// LoadPromptTemplate reads a template file. An empty path yields the default template.
func LoadPromptTemplate(path string) (*PromptTemplate, error) {
	if path == "" {
		return NewPromptTemplate(DefaultPromptTemplate)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}
	return NewPromptTemplate(string(content))
}

// Render builds the prompt for todos.
func (p *PromptTemplate) Render(todos []*domain.Todo) (string, error) {
	return p.render(promptData{Tasks: FormatTaskList(todos), Count: len(todos)})
}

func (p *PromptTemplate) render(data promptData) (string, error) {
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
