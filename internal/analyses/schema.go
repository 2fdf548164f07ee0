package analyses

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

const analysisSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["score", "summary"],
  "properties": {
    "score": {"type": "number", "minimum": 0, "maximum": 100},
    "summary": {"type": "string"},
    "skillAnalysis": {
      "type": "object",
      "properties": {
        "skillsToEmphasize": {"type": "array", "items": {"type": "string"}},
        "potentialGaps": {"type": "array", "items": {"type": "string"}}
      }
    },
    "bulletPointSuggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "suggestion"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "original": {"type": "string"},
          "suggestion": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(analysisSchema)

// Decode validates raw against the analysis schema and decodes it with
// missing lists defaulted.
func Decode(raw []byte) (Analysis, error) {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Analysis{}, fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return a.repair(), nil
}

// ValidID accepts UUIDs and 24-character hex document ids.
func ValidID(id string) bool {
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	if len(id) != 24 {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
