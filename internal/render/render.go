// Package render turns a page's ordered section list into HTML fragments.
//
// Rendering is a pure map-and-concatenate over the section list: each
// section is decoded and rendered independently in position order, and a
// malformed payload or renderer bug drops only that one fragment. Unknown
// type tags are skipped so that content-model additions never break
// published pages.
package render

import (
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"

	"github.com/craftline/sitecms/internal/content"
)

// Renderer maps section type tags to their presentation templates.
type Renderer struct {
	log *slog.Logger
	tpl *template.Template
}

// New returns a Renderer with the built-in section templates.
func New(logger *slog.Logger) *Renderer {
	return &Renderer{log: logger, tpl: sectionTemplates}
}

// Sections renders the given sections in position order and returns the
// concatenated fragments. Sections that fail to decode or render are
// logged and omitted; siblings are unaffected.
func (rd *Renderer) Sections(sections []content.Section) template.HTML {
	ordered := make([]content.Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var b strings.Builder
	for _, sec := range ordered {
		fragment, err := rd.section(sec)
		if err != nil {
			rd.log.Warn("section skipped", "type", string(sec.Type), "position", sec.Position, "err", err)
			continue
		}
		b.WriteString(string(fragment))
	}
	return template.HTML(b.String())
}

// section renders one section in isolation. A panicking template or decode
// bug is converted to an error so the caller can skip the fragment.
func (rd *Renderer) section(sec content.Section) (fragment template.HTML, err error) {
	defer func() {
		if r := recover(); r != nil {
			fragment = ""
			err = fmt.Errorf("section %q: render panic: %v", sec.Type, r)
		}
	}()

	payload, err := content.DecodePayload(sec)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := rd.tpl.ExecuteTemplate(&b, templateName(sec.Type), payload); err != nil {
		return "", fmt.Errorf("section %q: execute template: %w", sec.Type, err)
	}
	return template.HTML(b.String()), nil
}

func templateName(t content.SectionType) string {
	return "section/" + string(t)
}
