package matching

import (
	"errors"
	"strings"
	"testing"
)

const validRequestJSON = `{
  "currentUser": {
    "name": "Alex",
    "location": "Greenwood",
    "availability": ["Weekdays"],
    "trustScore": 4.8,
    "skillsOffered": [{"name": "Web Development", "level": "Expert"}],
    "skillsDesired": [{"name": "Creative Writing", "level": "Beginner"}]
  },
  "otherUsers": [
    {
      "name": "Jane",
      "location": "Greenwood",
      "availability": ["Weekends"],
      "trustScore": 4.5,
      "skillsOffered": [{"name": "Creative Writing", "level": "Expert"}],
      "skillsDesired": [{"name": "Web Development", "level": "Beginner"}]
    },
    {
      "name": "",
      "location": "",
      "availability": [],
      "trustScore": 0,
      "skillsOffered": [],
      "skillsDesired": []
    }
  ]
}`

func TestDecodeMatchRequest(t *testing.T) {
	req, err := DecodeMatchRequest(strings.NewReader(validRequestJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.CurrentUser.Name != "Alex" || req.CurrentUser.TrustScore != 4.8 {
		t.Fatalf("unexpected current user: %+v", req.CurrentUser)
	}

	if len(req.OtherUsers) != 2 || req.OtherUsers[0].Name != "Jane" {
		t.Fatalf("unexpected candidates: %+v", req.OtherUsers)
	}

	if req.OtherUsers[0].SkillsOffered[0].Level != Expert {
		t.Fatalf("unexpected level: %q", req.OtherUsers[0].SkillsOffered[0].Level)
	}

	if req.OtherUsers[1].Availability == nil {
		t.Fatalf("expected empty availability to decode as empty slice")
	}
}

func TestDecodeMatchRequestRejectsInvalidShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		field string
	}{
		{
			name:  "empty body",
			input: "",
		},
		{
			name:  "not json",
			input: "Jane is a great match",
		},
		{
			name:  "missing other users",
			input: `{"currentUser": {"name": "a", "location": "b", "availability": [], "trustScore": 1, "skillsOffered": [], "skillsDesired": []}}`,
			field: "otherUsers",
		},
		{
			name:  "missing level",
			input: strings.Replace(validRequestJSON, `{"name": "Web Development", "level": "Expert"}`, `{"name": "Web Development"}`, 1),
			field: "currentUser.skillsOffered[0].level",
		},
		{
			name:  "unknown level",
			input: strings.Replace(validRequestJSON, `"level": "Beginner"}]
  },`, `"level": "Novice"}]
  },`, 1),
			field: "currentUser.skillsDesired[0].level",
		},
		{
			name:  "null trust score",
			input: strings.Replace(validRequestJSON, `"trustScore": 4.5`, `"trustScore": null`, 1),
			field: "otherUsers[0].trustScore",
		},
		{
			name:  "mistyped trust score",
			input: strings.Replace(validRequestJSON, `"trustScore": 4.5`, `"trustScore": "4.5"`, 1),
			field: "otherUsers[0].trustScore",
		},
		{
			name:  "candidate is not an object",
			input: strings.Replace(validRequestJSON, `"otherUsers": [`, `"otherUsers": ["Jane",`, 1),
			field: "otherUsers[0]",
		},
		{
			name:  "availability is not an array",
			input: strings.Replace(validRequestJSON, `["Weekends"]`, `"Weekends"`, 1),
		},
		{
			name:  "null availability entry",
			input: strings.Replace(validRequestJSON, `["Weekends"]`, `["Weekends", null]`, 1),
			field: "otherUsers[0].availability[1]",
		},
		{
			name:  "extra field",
			input: strings.Replace(validRequestJSON, `"name": "Jane",`, `"name": "Jane", "email": "jane@example.com",`, 1),
			field: "otherUsers[0].email",
		},
		{
			name:  "nested extra field",
			input: strings.Replace(validRequestJSON, `{"name": "Web Development", "level": "Expert"}`, `{"name": "Web Development", "level": "Expert", "years": 3}`, 1),
			field: "currentUser.skillsOffered[0].years",
		},
		{
			name:  "trailing data",
			input: validRequestJSON + `{}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req, err := DecodeMatchRequest(strings.NewReader(tc.input))
			if req != nil {
				t.Fatalf("expected no request, got %+v", req)
			}

			var schemaErr *SchemaValidationError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaValidationError, got %v", err)
			}

			if tc.field != "" && schemaErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, schemaErr.Field, err)
			}
		})
	}
}
