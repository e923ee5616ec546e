// Package chat assembles augmented prompts for the financial assistant:
// intent detection over the user message, context fetches for whatever
// fired, attachment handling, and backend selection with fallback.
package chat

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Part types on the multimodal wire format.
const (
	PartText  = "text"
	PartImage = "image_url"
	PartFile  = "file_url"
)

// Part is one piece of a multimodal message. Exactly one of Text or URL
// is meaningful depending on Type; MimeType only applies to file parts.
type Part struct {
	Type     string
	Text     string
	URL      string
	MimeType string
}

func TextPart(text string) Part { return Part{Type: PartText, Text: text} }
func ImagePart(url string) Part { return Part{Type: PartImage, URL: url} }

func FilePart(url, mime string) Part {
	return Part{Type: PartFile, URL: url, MimeType: mime}
}

type wireURL struct {
	URL string `json:"url"`
}

type wireFile struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type,omitempty"`
}

type wirePart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *wireURL  `json:"image_url,omitempty"`
	FileURL  *wireFile `json:"file_url,omitempty"`
}

func (p Part) MarshalJSON() ([]byte, error) {
	w := wirePart{Type: p.Type}
	switch p.Type {
	case PartText:
		w.Text = p.Text
	case PartImage:
		w.ImageURL = &wireURL{URL: p.URL}
	case PartFile:
		w.FileURL = &wireFile{URL: p.URL, MimeType: p.MimeType}
	default:
		return nil, errors.Errorf("chat: unknown part type %q", p.Type)
	}
	return json.Marshal(w)
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var w wirePart
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Type = w.Type
	switch w.Type {
	case PartText:
		p.Text = w.Text
	case PartImage:
		if w.ImageURL != nil {
			p.URL = w.ImageURL.URL
		}
	case PartFile:
		if w.FileURL != nil {
			p.URL = w.FileURL.URL
			p.MimeType = w.FileURL.MimeType
		}
	default:
		return errors.Errorf("chat: unknown part type %q", w.Type)
	}
	return nil
}

// Content is an ordered list of parts. A single text part serializes as a
// bare string, matching what both backends accept; the structured form is
// only used when attachments are present.
type Content []Part

func (c Content) MarshalJSON() ([]byte, error) {
	if len(c) == 1 && c[0].Type == PartText {
		return json.Marshal(c[0].Text)
	}
	return json.Marshal([]Part(c))
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{TextPart(s)}
		return nil
	}

	var many []Part
	if err := json.Unmarshal(data, &many); err == nil {
		*c = Content(many)
		return nil
	}

	var one Part
	if err := json.Unmarshal(data, &one); err != nil {
		return errors.Wrap(err, "chat: decode content")
	}
	*c = Content{one}
	return nil
}

// Text concatenates the text parts.
func (c Content) Text() string {
	var out string
	for _, p := range c {
		if p.Type == PartText {
			if out != "" {
				out += "\n"
			}
			out += p.Text
		}
	}
	return out
}

// HasAudio reports whether any part is a file attachment. Audio is the
// only file type carried inline, so file presence implies audio.
func (c Content) HasAudio() bool {
	for _, p := range c {
		if p.Type == PartFile {
			return true
		}
	}
	return false
}

// Turn is one message of a conversation.
type Turn struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}
