package detail

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/layout"
)

// Markdown builds the detail document for item. detail, when set, is the
// source's detail site and is linked at the end.
func Markdown(item *fetch.Item, detail string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(layout.Sanitize(item.Name)))

	var meta []string
	for _, field := range []struct{ label, value string }{
		{"Type", item.TypeName},
		{"Year", item.Year.String()},
		{"Area", item.Area},
		{"Status", item.Remarks},
		{"Director", item.Director},
		{"Cast", item.Actor},
		{"Source", item.SourceName},
	} {
		if v := strings.TrimSpace(layout.Sanitize(field.value)); v != "" {
			meta = append(meta, fmt.Sprintf("- **%s:** %s", field.label, escape(v)))
		}
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, "\n"))
		b.WriteString("\n\n")
	}

	if item.HasCover() {
		fmt.Fprintf(&b, "Cover: <%s>\n\n", item.Pic)
	}

	if content := contentMarkdown(item.Content); content != "" {
		b.WriteString("## Synopsis\n\n")
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	episodes := ParsePlayList(item.PlayFrom, item.PlayURL)
	if len(episodes) > 0 {
		b.WriteString("## Episodes\n")
		group := ""
		for i, ep := range episodes {
			if ep.Group != group {
				group = ep.Group
				fmt.Fprintf(&b, "\n### %s\n\n", escape(layout.Sanitize(group)))
			}
			fmt.Fprintf(&b, "%d. %s  \n   `%s`\n", i+1, escape(layout.Sanitize(ep.Name)), ep.URL)
		}
		b.WriteString("\n")
	}

	if detail != "" {
		fmt.Fprintf(&b, "---\n\nMore at <%s>\n", detail)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// contentMarkdown converts the HTML synopsis most sources return. Plain
// text passes through unchanged.
func contentMarkdown(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return escape(layout.Sanitize(html))
	}
	return strings.TrimSpace(md)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
