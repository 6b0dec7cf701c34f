package render

import "html/template"

// sectionTemplates holds one template per known section type, named
// "section/<type tag>". Registration is a fixed compile-time table; new
// section types get a payload struct in the content package, a case in
// DecodePayload, and a template here.
var sectionTemplates = template.Must(template.New("sections").Funcs(template.FuncMap{
	"trusted": trustedHTML,
}).Parse(`
{{define "section/hero"}}
<section class="hero"{{if .ImageURL}} style="background-image:url('{{.ImageURL}}')"{{end}}>
  <h1>{{.Heading}}</h1>
  {{- if .Subheading}}
  <p class="hero-sub">{{.Subheading}}</p>
  {{- end}}
  {{- if and .CTALabel .CTAHref}}
  <a class="btn btn-primary" href="{{.CTAHref}}">{{.CTALabel}}</a>
  {{- end}}
</section>
{{end}}

{{define "section/rich-text"}}
<section class="rich-text">{{trusted .HTML}}</section>
{{end}}

{{define "section/image-with-text"}}
<section class="image-with-text{{if .ImageRight}} image-right{{end}}">
  <img src="{{.ImageURL}}" alt="{{.Alt}}">
  <div class="image-with-text-body">
    {{- if .Heading}}
    <h2>{{.Heading}}</h2>
    {{- end}}
    {{trusted .HTML}}
  </div>
</section>
{{end}}

{{define "section/gallery"}}
<section class="gallery">
  {{- if .Heading}}
  <h2>{{.Heading}}</h2>
  {{- end}}
  <div class="gallery-grid">
  {{- range .Images}}
    <figure>
      <img src="{{.URL}}" alt="{{.Alt}}" loading="lazy">
      {{- if .Caption}}
      <figcaption>{{.Caption}}</figcaption>
      {{- end}}
    </figure>
  {{- end}}
  </div>
</section>
{{end}}

{{define "section/faq-list"}}
<section class="faq-list">
  {{- if .Heading}}
  <h2>{{.Heading}}</h2>
  {{- end}}
  {{- range .Items}}
  <details>
    <summary>{{.Question}}</summary>
    <p>{{.Answer}}</p>
  </details>
  {{- end}}
</section>
{{end}}

{{define "section/testimonial-list"}}
<section class="testimonials">
  {{- if .Heading}}
  <h2>{{.Heading}}</h2>
  {{- end}}
  {{- range .Items}}
  <blockquote>
    <p>{{.Quote}}</p>
    {{- if .Author}}
    <cite>{{.Author}}{{if .Detail}}, {{.Detail}}{{end}}</cite>
    {{- end}}
  </blockquote>
  {{- end}}
</section>
{{end}}

{{define "section/call-to-action"}}
<section class="cta">
  <h2>{{.Heading}}</h2>
  {{- if .Body}}
  <p>{{.Body}}</p>
  {{- end}}
  <a class="btn btn-primary" href="{{.Href}}">{{.Label}}</a>
</section>
{{end}}
`))

func trustedHTML(s string) template.HTML {
	return template.HTML(s)
}
