package matching

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Wire shapes use pointers so that absent and null fields can be told apart from zero values.
type wireSkill struct {
	Name  *string `json:"name" validate:"required"`
	Level *string `json:"level" validate:"required,oneof=Beginner Intermediate Expert"`
}

type wireProfile struct {
	Name          *string      `json:"name" validate:"required"`
	Location      *string      `json:"location" validate:"required"`
	Availability  *[]*string   `json:"availability" validate:"required,dive,required"`
	TrustScore    *float64     `json:"trustScore" validate:"required"`
	SkillsOffered *[]wireSkill `json:"skillsOffered" validate:"required,dive"`
	SkillsDesired *[]wireSkill `json:"skillsDesired" validate:"required,dive"`
}

type wireRequest struct {
	CurrentUser *wireProfile   `json:"currentUser" validate:"required"`
	OtherUsers  *[]wireProfile `json:"otherUsers" validate:"required,dive"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// DecodeMatchRequest reads a JSON match request. Unknown fields are rejected at every level,
// every field is required and levels must belong to the enumeration.
func DecodeMatchRequest(r io.Reader) (*MatchRequest, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, schemaError("", "cannot be read: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var wire wireRequest
	if err := dec.Decode(&wire); err != nil {
		return nil, decodeError(err, body)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, schemaError("", "unexpected data after the request object")
	}

	if err := schemaValidator().Struct(&wire); err != nil {
		return nil, validationError(err)
	}

	req := &MatchRequest{
		CurrentUser: wire.CurrentUser.profile(),
		OtherUsers:  make([]UserProfile, 0, len(*wire.OtherUsers)),
	}
	for idx := range *wire.OtherUsers {
		req.OtherUsers = append(req.OtherUsers, (*wire.OtherUsers)[idx].profile())
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

func (w *wireProfile) profile() UserProfile {
	availability := make([]string, 0, len(*w.Availability))
	for _, slot := range *w.Availability {
		availability = append(availability, *slot)
	}

	return UserProfile{
		Name:          *w.Name,
		Location:      *w.Location,
		Availability:  availability,
		TrustScore:    *w.TrustScore,
		SkillsOffered: skillsFromWire(*w.SkillsOffered),
		SkillsDesired: skillsFromWire(*w.SkillsDesired),
	}
}

func skillsFromWire(in []wireSkill) []Skill {
	out := make([]Skill, 0, len(in))
	for _, skill := range in {
		out = append(out, Skill{Name: *skill.Name, Level: Level(*skill.Level)})
	}
	return out
}

// decodeError maps decoder failures onto schema errors. Field paths are recovered from body
// because encoding/json reports them without array indexes.
func decodeError(err error, body []byte) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return schemaError("", "request body is empty")
	case errors.As(err, &syntaxErr):
		return schemaError("", "is not valid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if path := typeErrorPath(body, field); path != "" {
			field = path
		}
		return schemaError(field, "has wrong type %s", typeErr.Value)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		if path := unknownFieldPath(body, field); path != "" {
			field = path
		}
		return schemaError(field, "is not allowed")
	default:
		return schemaError("", "cannot be decoded: %v", err)
	}
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return schemaError("", "%v", err)
	}

	first := fieldErrs[0]
	field := first.Namespace()
	if idx := strings.Index(field, "."); idx != -1 {
		field = field[idx+1:]
	}

	switch first.Tag() {
	case "required":
		return schemaError(field, "is required")
	case "oneof":
		return schemaError(field, "must be one of %s, got %q", levelList(), fmt.Sprint(first.Value()))
	default:
		return schemaError(field, "failed %q check", first.Tag())
	}
}
