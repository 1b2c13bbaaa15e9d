package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// placeholder fills table cells whose value is absent.
const placeholder = "-"

// ComponentMarkdown renders a component as a markdown document. Sections are
// emitted in a fixed order and only when their field is set; the import
// section is always present.
func ComponentMarkdown(c catalog.Component) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Name)

	if c.Description != "" {
		fmt.Fprintf(&b, "## Description\n\n%s\n\n", c.Description)
	}

	if c.WhenToUse != "" {
		fmt.Fprintf(&b, "## When to use\n\n%s\n\n", c.WhenToUse)
	}

	if len(c.Examples) > 0 {
		b.WriteString("## Examples\n\n")
		for i, ex := range c.Examples {
			fmt.Fprintf(&b, "%d. %s\n", i+1, ex)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Import\n\n```javascript\nimport { %s } from '%s';\n```\n\n", c.Name, c.ImportPath)

	if len(c.Props) > 0 {
		b.WriteString("## Props\n\n")
		b.WriteString("| Name | Type | Required | Default | Description |\n")
		b.WriteString("|------|------|----------|---------|-------------|\n")
		for _, p := range c.Props {
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s | %s |\n",
				cell(p.Name),
				cell(p.Type),
				yesNo(p.Required),
				cellOr(FormatDefault(p.DefaultValue)),
				cellOr(p.Description),
			)
		}
		b.WriteString("\n")
	}

	if c.Category != "" {
		fmt.Fprintf(&b, "## Category\n\n%s\n\n", c.Category)
	}

	return b.String()
}

// FormatDefault renders a prop default for display. Strings are shown
// verbatim, other values as compact JSON, and nil as "".
func FormatDefault(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// cell escapes characters that would break a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func cellOr(s string) string {
	if s == "" {
		return placeholder
	}
	return cell(s)
}
