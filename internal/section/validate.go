package section

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/conlangforge/conlangforge/internal/common"
)

// Validate checks a raw properties document against the schema for the given
// section type and returns the decoded payload. On failure it returns a
// *common.ValidationError whose Fields map is addressed by field path. The
// check is all-or-nothing: a document that fails is never partially applied.
func Validate(t Type, raw json.RawMessage) (Properties, error) {
	verr := common.NewValidationError()

	if !t.Valid() {
		verr.Add("sectionType", "unknown section type")
		return nil, verr
	}

	p, err := Decode(t, raw)
	if err != nil {
		verr.Add("properties", "malformed properties document: "+err.Error())
		return nil, verr
	}

	switch v := p.(type) {
	case Definition:
		validateDefinition(v, verr)
	case Pronunciation:
		validatePronunciation(v, verr)
	case Etymology:
		// all fields optional
	case CustomText:
		validateCustomText(v, verr)
	case CustomFields:
		validateCustomFields(v, verr)
	}

	if !verr.Empty() {
		return nil, verr
	}
	return p, nil
}

func validateDefinition(v Definition, verr *common.ValidationError) {
	if strings.TrimSpace(v.LexicalCategoryID) == "" {
		verr.Add("properties.lexicalCategoryId", "lexical category is required")
	}
	for i, ex := range v.Examples {
		if strings.TrimSpace(ex) == "" {
			verr.Add(exampleFieldPath(i), "example must not be empty")
		}
	}
}

func validatePronunciation(v Pronunciation, verr *common.ValidationError) {
	if strings.TrimSpace(v.IPA) == "" && strings.TrimSpace(v.PronunciationText) == "" {
		verr.Add("properties.ipa", "at least one of ipa or pronunciationText is required")
	}
	if v.AudioURL != "" {
		u, err := url.Parse(v.AudioURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			verr.Add("properties.audioUrl", "must be a well-formed absolute URL or empty")
		}
	}
}

func validateCustomText(v CustomText, verr *common.ValidationError) {
	if strings.TrimSpace(v.Title) == "" {
		verr.Add("properties.title", "title is required")
	}
	if strings.TrimSpace(v.ContentText) == "" {
		verr.Add("properties.contentText", "content is required")
	}
}

func validateCustomFields(v CustomFields, verr *common.ValidationError) {
	if v.CustomFields == nil {
		verr.Add("properties.customFields", "customFields is required")
		return
	}
	for k := range v.CustomFields {
		if strings.TrimSpace(k) == "" {
			verr.Add("properties.customFields", "field names must not be empty")
		}
	}
}

func exampleFieldPath(i int) string {
	return "properties.examples[" + strconv.Itoa(i) + "]"
}
