package oracle

import (
	"strings"
)

// Placeholder names available to prompt templates.
const (
	VarCategories   = "categories"
	VarCompanyInfo  = "company_info"
	VarWebContext   = "web_context"
	VarCompanyQuery = "company_query"
)

// RenderTemplate substitutes {name} placeholders with vars. "{{" and "}}"
// render as literal braces. Placeholders with no value in vars, and
// unbalanced braces, are left in the output unchanged.
func RenderTemplate(tmpl string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		ch := tmpl[i]
		switch {
		case ch == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexAny(tmpl[i+1:], "{}")
			if end < 0 || tmpl[i+1+end] != '}' {
				b.WriteByte(ch)
				continue
			}
			name := tmpl[i+1 : i+1+end]
			if v, ok := vars[name]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(tmpl[i : i+end+2])
			}
			i += end + 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Prompts holds the three operator-supplied templates.
type Prompts struct {
	System string
	User   string
	Search string
}

// JoinCategories renders a category list the way templates expect it.
func JoinCategories(categories []string) string {
	return strings.Join(categories, ", ")
}

// SearchQuery renders the search template for a company query.
func (p Prompts) SearchQuery(companyQuery string) string {
	return RenderTemplate(p.Search, map[string]string{VarCompanyQuery: companyQuery})
}

// SystemMessage renders the classifier system message.
func (p Prompts) SystemMessage(categories []string) string {
	return RenderTemplate(p.System, map[string]string{VarCategories: JoinCategories(categories)})
}

// UserMessage renders the classifier user message.
func (p Prompts) UserMessage(subject, webContext string, categories []string) string {
	return RenderTemplate(p.User, map[string]string{
		VarCompanyInfo: subject,
		VarWebContext:  webContext,
		VarCategories:  JoinCategories(categories),
	})
}
