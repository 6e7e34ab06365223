package members

import (
	"strings"

	"github.com/spigell/skillswap/internal/matching"
)

type Member struct {
	ID            string           `mapstructure:"id" json:"id"`
	Name          string           `mapstructure:"name" json:"name"`
	Email         string           `mapstructure:"email" json:"email,omitempty"`
	Phone         string           `mapstructure:"phone" json:"phone,omitempty"`
	Location      string           `mapstructure:"location" json:"location"`
	Bio           string           `mapstructure:"bio" json:"bio,omitempty"`
	Availability  []string         `mapstructure:"availability" json:"availability"`
	TrustScore    float64          `mapstructure:"trust_score" json:"trust_score"`
	SkillsOffered []matching.Skill `mapstructure:"skills_offered" json:"skills_offered"`
	SkillsDesired []matching.Skill `mapstructure:"skills_desired" json:"skills_desired"`
	Pods          []string         `mapstructure:"pods" json:"pods,omitempty"`
	Verifications Verifications    `mapstructure:"verifications" json:"verifications"`
}

type Verifications struct {
	Email  bool `mapstructure:"email" json:"email"`
	Mobile bool `mapstructure:"mobile" json:"mobile"`
	ID     bool `mapstructure:"id" json:"id"`
}

// Profile projects the member onto the fields a ranker sees. Contact details and verifications
// never leave the directory.
func (m *Member) Profile() matching.UserProfile {
	return matching.UserProfile{
		Name:          m.Name,
		Location:      m.Location,
		Availability:  append([]string(nil), m.Availability...),
		TrustScore:    m.TrustScore,
		SkillsOffered: append([]matching.Skill(nil), m.SkillsOffered...),
		SkillsDesired: append([]matching.Skill(nil), m.SkillsDesired...),
	}
}

// Label is used in interactive selections.
func (m *Member) Label() string {
	return m.ID + " " + m.Name + " / " + m.Location
}

type Members struct {
	Items []*Member
}

func (m *Members) Len() int {
	return len(m.Items)
}

func (m *Members) FindByID(id string) *Member {
	for _, member := range m.Items {
		if member.ID == id {
			return member
		}
	}
	return nil
}

// FindByName matches names ignoring case. The first match wins.
func (m *Members) FindByName(name string) *Member {
	name = strings.TrimSpace(name)
	for _, member := range m.Items {
		if strings.EqualFold(member.Name, name) {
			return member
		}
	}
	return nil
}

func (m *Members) Names() []string {
	names := make([]string, 0, len(m.Items))
	for _, member := range m.Items {
		names = append(names, member.Name)
	}
	return names
}

func (m *Members) IDs() []string {
	ids := make([]string, 0, len(m.Items))
	for _, member := range m.Items {
		ids = append(ids, member.ID)
	}
	return ids
}

// Without returns a copy of the collection lacking the member with the given id.
func (m *Members) Without(id string) *Members {
	items := make([]*Member, 0, len(m.Items))
	for _, member := range m.Items {
		if member.ID != id {
			items = append(items, member)
		}
	}
	return &Members{Items: items}
}

// Exclude removes members with the given ids in place and returns the removed ids.
func (m *Members) Exclude(ids []string) []string {
	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	return m.Keep(func(member *Member) bool {
		_, drop := targets[member.ID]
		return !drop
	})
}

// Keep retains the members for which keep returns true, preserving their order, and returns
// the ids of the dropped ones.
func (m *Members) Keep(keep func(*Member) bool) []string {
	var dropped []string
	items := m.Items[:0]
	for _, member := range m.Items {
		if keep(member) {
			items = append(items, member)
			continue
		}
		dropped = append(dropped, member.ID)
	}

	for idx := len(items); idx < len(m.Items); idx++ {
		m.Items[idx] = nil
	}
	m.Items = items

	return dropped
}

func (m *Members) Profiles() []matching.UserProfile {
	profiles := make([]matching.UserProfile, 0, len(m.Items))
	for _, member := range m.Items {
		profiles = append(profiles, member.Profile())
	}
	return profiles
}

// Clone copies the list, not the members.
func (m *Members) Clone() *Members {
	return &Members{Items: append([]*Member(nil), m.Items...)}
}
