// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package skill

import (
	"slices"
	"strings"

	"github.com/danielhkuo/plant-care/models"
)

const responseVersion = "1.0"

// ResponseBuilder accumulates a response. The zero value is not usable;
// call NewResponseBuilder.
type ResponseBuilder struct {
	resp models.Response
}

func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Speak sets the spoken output
func (b *ResponseBuilder) Speak(text string) *ResponseBuilder {
	b.resp.OutputSpeech = ssml(text)
	return b
}

// Reprompt sets the reprompt and keeps the session open
func (b *ResponseBuilder) Reprompt(text string) *ResponseBuilder {
	b.resp.Reprompt = &models.Reprompt{OutputSpeech: *ssml(text)}
	b.WithShouldEndSession(false)
	return b
}

func (b *ResponseBuilder) AddDirective(d models.Directive) *ResponseBuilder {
	b.resp.Directives = append(b.resp.Directives, d)
	return b
}

func (b *ResponseBuilder) WithShouldEndSession(end bool) *ResponseBuilder {
	b.resp.ShouldEndSession = &end
	return b
}

// Build returns the envelope. The builder may still be used afterwards.
func (b *ResponseBuilder) Build() *models.ResponseEnvelope {
	resp := b.resp
	resp.Directives = slices.Clone(b.resp.Directives)
	if b.resp.ShouldEndSession != nil {
		end := *b.resp.ShouldEndSession
		resp.ShouldEndSession = &end
	}
	return &models.ResponseEnvelope{Version: responseVersion, Response: resp}
}

// ssmlEscaper escapes markup characters. Quotes only need escaping inside
// attributes and never appear there, so speech text keeps its apostrophes.
var ssmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func ssml(text string) *models.OutputSpeech {
	return &models.OutputSpeech{Type: "SSML", SSML: "<speak>" + ssmlEscaper.Replace(text) + "</speak>"}
}
