package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionType discriminates which presentation unit renders a section.
type SectionType string

// The closed set of section types the renderer knows how to present.
// Unknown tags are preserved in the data model and skipped at render time.
const (
	SectionHero            SectionType = "hero"
	SectionRichText        SectionType = "rich-text"
	SectionImageWithText   SectionType = "image-with-text"
	SectionGallery         SectionType = "gallery"
	SectionFAQList         SectionType = "faq-list"
	SectionTestimonialList SectionType = "testimonial-list"
	SectionCallToAction    SectionType = "call-to-action"
)

// KnownSectionTypes lists every type tag with a registered renderer, in a
// stable order suitable for admin UIs.
func KnownSectionTypes() []SectionType {
	return []SectionType{
		SectionHero,
		SectionRichText,
		SectionImageWithText,
		SectionGallery,
		SectionFAQList,
		SectionTestimonialList,
		SectionCallToAction,
	}
}

// Known reports whether the type tag has a registered renderer.
func (t SectionType) Known() bool {
	switch t {
	case SectionHero, SectionRichText, SectionImageWithText, SectionGallery,
		SectionFAQList, SectionTestimonialList, SectionCallToAction:
		return true
	}
	return false
}

// HeroPayload is the payload for [SectionHero].
type HeroPayload struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	CTALabel   string `json:"cta_label,omitempty"`
	CTAHref    string `json:"cta_href,omitempty"`
}

// RichTextPayload is the payload for [SectionRichText]. HTML is trusted
// editor-authored markup.
type RichTextPayload struct {
	HTML string `json:"html"`
}

// ImageWithTextPayload is the payload for [SectionImageWithText].
type ImageWithTextPayload struct {
	ImageURL   string `json:"image_url"`
	Alt        string `json:"alt,omitempty"`
	Heading    string `json:"heading,omitempty"`
	HTML       string `json:"html,omitempty"`
	ImageRight bool   `json:"image_right,omitempty"`
}

// GalleryImage is one entry of a [SectionGallery] payload.
type GalleryImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// GalleryPayload is the payload for [SectionGallery].
type GalleryPayload struct {
	Heading string         `json:"heading,omitempty"`
	Images  []GalleryImage `json:"images"`
}

// FAQItem is one question/answer pair of a [SectionFAQList] payload.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQListPayload is the payload for [SectionFAQList].
type FAQListPayload struct {
	Heading string    `json:"heading,omitempty"`
	Items   []FAQItem `json:"items"`
}

// Testimonial is one entry of a [SectionTestimonialList] payload.
type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// TestimonialListPayload is the payload for [SectionTestimonialList].
type TestimonialListPayload struct {
	Heading string        `json:"heading,omitempty"`
	Items   []Testimonial `json:"items"`
}

// CallToActionPayload is the payload for [SectionCallToAction].
type CallToActionPayload struct {
	Heading string `json:"heading"`
	Body    string `json:"body,omitempty"`
	Label   string `json:"label"`
	Href    string `json:"href"`
}

// DecodePayload decodes a section payload into the struct matching its type
// tag. The returned value is a pointer to the payload struct. Unknown type
// tags return [ErrUnknownSectionType].
func DecodePayload(s Section) (any, error) {
	var dst any
	switch s.Type {
	case SectionHero:
		dst = &HeroPayload{}
	case SectionRichText:
		dst = &RichTextPayload{}
	case SectionImageWithText:
		dst = &ImageWithTextPayload{}
	case SectionGallery:
		dst = &GalleryPayload{}
	case SectionFAQList:
		dst = &FAQListPayload{}
	case SectionTestimonialList:
		dst = &TestimonialListPayload{}
	case SectionCallToAction:
		dst = &CallToActionPayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, s.Type)
	}
	if len(s.Payload) == 0 {
		return nil, fmt.Errorf("section %q: empty payload", s.Type)
	}
	dec := json.NewDecoder(bytes.NewReader(s.Payload))
	if err := dec.Decode(dst); err != nil {
		return nil, fmt.Errorf("section %q: decode payload: %w", s.Type, err)
	}
	return dst, nil
}
