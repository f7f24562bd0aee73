package section

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/conlangforge/conlangforge/internal/markdownx"
)

// Render maps a validated payload to display markup. It is pure: no I/O, no
// state. Empty optional fields suppress their sub-element entirely instead
// of rendering an empty placeholder. Markdown bodies are re-rendered to HTML
// here; raw persisted HTML is never required for correct display.
//
// Render panics on a payload outside the closed variant set. That cannot
// happen for documents that passed Validate, so a panic indicates a
// programming error, not bad user input.
func Render(p Properties) template.HTML {
	switch v := p.(type) {
	case Definition:
		return renderDefinition(v)
	case Pronunciation:
		return renderPronunciation(v)
	case Etymology:
		return renderEtymology(v)
	case CustomText:
		return renderCustomText(v)
	case CustomFields:
		return renderCustomFields(v)
	default:
		panic(fmt.Sprintf("section: cannot render unknown properties type %T", p))
	}
}

func renderDefinition(v Definition) template.HTML {
	var b strings.Builder
	b.WriteString(`<section class="section section-definition">`)
	writeTitle(&b, v.Title, "Definition")
	if v.DefinitionText != "" {
		b.WriteString(`<div class="body">`)
		b.WriteString(markdownBody(v.DefinitionText))
		b.WriteString(`</div>`)
	}
	if len(v.Examples) > 0 {
		b.WriteString(`<ol class="examples">`)
		for _, ex := range v.Examples {
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(ex))
			b.WriteString("</li>")
		}
		b.WriteString(`</ol>`)
	}
	b.WriteString(`</section>`)
	return template.HTML(b.String())
}

// phoneticEntry is one labeled pronunciation value. A section with more than
// one entry renders as a labeled list (plural form); exactly one entry
// renders inline (singular form).
type phoneticEntry struct {
	label string
	text  string
}

func phoneticEntries(v Pronunciation) []phoneticEntry {
	var entries []phoneticEntry
	if v.IPA != "" {
		entries = append(entries, phoneticEntry{label: "IPA", text: "/" + v.IPA + "/"})
	}
	if v.PronunciationText != "" {
		entries = append(entries, phoneticEntry{label: "Pronunciation", text: v.PronunciationText})
	}
	return entries
}

func renderPronunciation(v Pronunciation) template.HTML {
	var b strings.Builder
	b.WriteString(`<section class="section section-pronunciation">`)

	title := v.Title
	if title == "" {
		title = "Pronunciation"
	}
	if v.Region != "" {
		title += " (" + v.Region + ")"
	}
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h3>")

	entries := phoneticEntries(v)
	if len(entries) > 1 {
		b.WriteString(`<ul class="phonetics">`)
		for _, e := range entries {
			b.WriteString(`<li><span class="label">`)
			b.WriteString(html.EscapeString(e.label))
			b.WriteString(`</span> `)
			b.WriteString(html.EscapeString(e.text))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	} else if len(entries) == 1 {
		b.WriteString(`<p class="phonetic">`)
		b.WriteString(html.EscapeString(entries[0].text))
		b.WriteString("</p>")
	}

	if v.AudioURL != "" {
		b.WriteString(`<audio controls src="`)
		b.WriteString(html.EscapeString(v.AudioURL))
		b.WriteString(`"></audio>`)
	}
	b.WriteString(`</section>`)
	return template.HTML(b.String())
}

func renderEtymology(v Etymology) template.HTML {
	var b strings.Builder
	b.WriteString(`<section class="section section-etymology">`)
	writeTitle(&b, v.Title, "Etymology")
	if v.EtymologyText != "" {
		b.WriteString(`<div class="body">`)
		b.WriteString(markdownBody(v.EtymologyText))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</section>`)
	return template.HTML(b.String())
}

func renderCustomText(v CustomText) template.HTML {
	var b strings.Builder
	b.WriteString(`<section class="section section-custom-text">`)
	writeTitle(&b, v.Title, "")
	b.WriteString(`<div class="body">`)
	b.WriteString(markdownBody(v.ContentText))
	b.WriteString(`</div>`)
	b.WriteString(`</section>`)
	return template.HTML(b.String())
}

func renderCustomFields(v CustomFields) template.HTML {
	var b strings.Builder
	b.WriteString(`<section class="section section-custom-fields">`)
	writeTitle(&b, v.Title, "Details")

	keys := make([]string, 0, len(v.CustomFields))
	for k := range v.CustomFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		b.WriteString("<dl>")
		for _, k := range keys {
			b.WriteString("<dt>")
			b.WriteString(html.EscapeString(k))
			b.WriteString("</dt><dd>")
			b.WriteString(html.EscapeString(v.CustomFields[k]))
			b.WriteString("</dd>")
		}
		b.WriteString("</dl>")
	}
	b.WriteString(`</section>`)
	return template.HTML(b.String())
}

func writeTitle(b *strings.Builder, title, fallback string) {
	if title == "" {
		title = fallback
	}
	if title == "" {
		return
	}
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h3>")
}

func markdownBody(md string) string {
	out, err := markdownx.ToHTML(md)
	if err != nil {
		// Markdown rendering is effectively infallible; fall back to
		// escaped plain text rather than dropping the body.
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return out
}
