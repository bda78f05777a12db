// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	_ "embed"
	"encoding/json"

	"github.com/danielhkuo/plant-care/models"
)

var (
	//go:embed documents/launch_template.json
	launchDocument []byte

	//go:embed documents/plant_care.json
	plantCareDocument []byte
)

const (
	headlineBackgroundURL = "https://d2o906d8ln7ui1.cloudfront.net/images/templates_v3/headline/HeadlineBackground_Dark.png"
	headlineLogoURL       = "https://d2o906d8ln7ui1.cloudfront.net/images/templates_v3/logo/logo-modern-botanical-white.png"
	plantCareBackground   = "https://d2o906d8ln7ui1.cloudfront.net/images/templates_v3/long_text/LongTextSampleBackground_Dark.png"
)

func launchDirective() models.Directive {
	return models.Directive{
		Type:     models.DirectiveAPLRenderDocument,
		Token:    "launchToken",
		Document: json.RawMessage(launchDocument),
		Datasources: map[string]any{
			"headlineTemplateData": map[string]any{
				"type":     "object",
				"objectId": "headlineSample",
				"properties": map[string]any{
					"backgroundImage": map[string]any{
						"contentDescription": nil,
						"smallSourceUrl":     nil,
						"largeSourceUrl":     nil,
						"sources": []map[string]any{
							{"url": headlineBackgroundURL, "size": "large"},
						},
					},
					"textContent": map[string]any{
						"primaryText": map[string]any{
							"type": "PlainText",
							"text": "Welcome to The Plant Care Skill",
						},
					},
					"logoUrl":  headlineLogoURL,
					"hintText": `Try, "Alexa, water my plant"`,
				},
			},
		},
	}
}

func plantCareDirective(lastWateredDate string) models.Directive {
	return models.Directive{
		Type:     models.DirectiveAPLRenderDocument,
		Token:    "plantCareToken",
		Document: json.RawMessage(plantCareDocument),
		Datasources: map[string]any{
			"alexaPhotoData": map[string]any{
				"title": "Plant Care Reminder",
				"backgroundImage": map[string]any{
					"sources": []map[string]any{
						{"url": plantCareBackground, "size": "large"},
					},
				},
				"lastWateredDate": lastWateredDate,
				"primaryText":     "Haworthia Zebra Plant",
				"secondaryText":   "Water today",
				"buttonText":      "I watered my plant",
			},
		},
	}
}
