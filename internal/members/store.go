package members

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/skillswap/internal/matching"
)

var ErrMemberNotFound = errors.New("member not found")

// Store gives read access to the member directory.
type Store interface {
	Get(id string) (*Member, error)
	List() *Members
}

// Directory is a Store backed by an in-memory list.
type Directory struct {
	members *Members
}

func NewDirectory(members *Members) *Directory {
	if members == nil {
		members = &Members{}
	}
	return &Directory{members: members}
}

func (d *Directory) Get(id string) (*Member, error) {
	id = strings.TrimSpace(id)
	if member := d.members.FindByID(id); member != nil {
		return member, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
}

// List returns a copy of the member list which callers are free to filter.
func (d *Directory) List() *Members {
	return d.members.Clone()
}

type directoryFile struct {
	Members []*Member `mapstructure:"members"`
}

// Load reads a member directory file. The format follows the file extension (yaml, json, toml).
func Load(path string) (*Directory, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("members file is not configured")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading members file %s: %w", path, err)
	}

	var file directoryFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &file,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding members file %s: %w", path, err)
	}

	members := &Members{Items: file.Members}
	if err := normalize(members); err != nil {
		return nil, fmt.Errorf("members file %s: %w", path, err)
	}

	return NewDirectory(members), nil
}

func normalize(members *Members) error {
	seen := make(map[string]struct{}, members.Len())
	for idx, member := range members.Items {
		if member == nil {
			return fmt.Errorf("members[%d] is empty", idx)
		}

		member.ID = strings.TrimSpace(member.ID)
		if member.ID == "" {
			return fmt.Errorf("members[%d]: id is required", idx)
		}
		if _, dup := seen[member.ID]; dup {
			return fmt.Errorf("members[%d]: duplicate id %s", idx, member.ID)
		}
		seen[member.ID] = struct{}{}

		if err := normalizeSkills(member.SkillsOffered); err != nil {
			return fmt.Errorf("member %s: skills_offered: %w", member.ID, err)
		}
		if err := normalizeSkills(member.SkillsDesired); err != nil {
			return fmt.Errorf("member %s: skills_desired: %w", member.ID, err)
		}
	}
	return nil
}

func normalizeSkills(skills []matching.Skill) error {
	for idx := range skills {
		level, ok := matching.ParseLevel(string(skills[idx].Level))
		if !ok {
			return fmt.Errorf("[%d] %s: unknown level %q", idx, skills[idx].Name, skills[idx].Level)
		}
		skills[idx].Level = level
	}
	return nil
}
