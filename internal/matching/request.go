package matching

import (
	"fmt"
	"math"
)

// NewMatchRequest validates the profiles and assembles a request. The order of others is
// preserved and no self-match filtering happens here: callers must leave the current user out.
func NewMatchRequest(current UserProfile, others []UserProfile) (*MatchRequest, error) {
	req := &MatchRequest{
		CurrentUser: normalize(current),
		OtherUsers:  make([]UserProfile, 0, len(others)),
	}
	for _, other := range others {
		req.OtherUsers = append(req.OtherUsers, normalize(other))
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks the request against the declared shape. Nil slices count as empty.
func (r *MatchRequest) Validate() error {
	if r == nil {
		return schemaError("", "request is required")
	}

	if err := validateProfile("currentUser", &r.CurrentUser); err != nil {
		return err
	}

	for idx := range r.OtherUsers {
		if err := validateProfile(fmt.Sprintf("otherUsers[%d]", idx), &r.OtherUsers[idx]); err != nil {
			return err
		}
	}

	return nil
}

func validateProfile(path string, p *UserProfile) error {
	if math.IsNaN(p.TrustScore) || math.IsInf(p.TrustScore, 0) {
		return schemaError(path+".trustScore", "must be a finite number")
	}

	if err := validateSkills(path+".skillsOffered", p.SkillsOffered); err != nil {
		return err
	}

	return validateSkills(path+".skillsDesired", p.SkillsDesired)
}

func validateSkills(path string, skills []Skill) error {
	for idx, skill := range skills {
		field := fmt.Sprintf("%s[%d].level", path, idx)
		if skill.Level == "" {
			return schemaError(field, "is required")
		}
		if !skill.Level.Valid() {
			return schemaError(field, "must be one of %s, got %q", levelList(), skill.Level)
		}
	}
	return nil
}

func normalize(p UserProfile) UserProfile {
	if p.Availability == nil {
		p.Availability = []string{}
	}
	if p.SkillsOffered == nil {
		p.SkillsOffered = []Skill{}
	}
	if p.SkillsDesired == nil {
		p.SkillsDesired = []Skill{}
	}
	return p
}

func levelList() string {
	return fmt.Sprintf("%s, %s, %s", Beginner, Intermediate, Expert)
}
