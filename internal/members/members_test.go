package members

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/skillswap/internal/matching"
)

const directoryYAML = `members:
  - id: user-1
    name: Alex Doe
    email: alex.doe@example.com
    location: Greenwood
    availability: [Weekdays, Evenings]
    trust_score: 4.8
    skills_offered:
      - name: Web Development
        level: Expert
    skills_desired:
      - name: Creative Writing
        level: beginner
    pods: [pod-1]
    verifications:
      email: true
  - id: user-2
    name: Jane Smith
    location: Greenwood
    availability: [Weekends]
    trust_score: 4
    skills_offered:
      - name: Creative Writing
        level: Expert
    skills_desired:
      - name: Web Development
        level: Beginner
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir, err := Load(writeFile(t, "members.yaml", directoryYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := dir.List()
	if list.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", list.Len())
	}

	alex, err := dir.Get(" user-1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if alex.SkillsDesired[0].Level != matching.Beginner {
		t.Fatalf("expected level to be normalized, got %q", alex.SkillsDesired[0].Level)
	}
	if !alex.Verifications.Email || alex.Verifications.ID {
		t.Fatalf("unexpected verifications: %+v", alex.Verifications)
	}

	jane := list.FindByName("jane smith")
	if jane == nil || jane.TrustScore != 4 {
		t.Fatalf("unexpected jane: %+v", jane)
	}

	if _, err := dir.Get("user-9"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestLoadRejectsBrokenFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown key",
			content: directoryYAML + "    nickname: janie\n",
			want:    "nickname",
		},
		{
			name:    "unknown level",
			content: strings.Replace(directoryYAML, "level: beginner", "level: guru", 1),
			want:    "unknown level",
		},
		{
			name:    "duplicate id",
			content: strings.Replace(directoryYAML, "id: user-2", "id: user-1", 1),
			want:    "duplicate id",
		},
		{
			name:    "missing id",
			content: strings.Replace(directoryYAML, "id: user-2", "id: \"\"", 1),
			want:    "id is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeFile(t, "members.yaml", tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestMembersCollection(t *testing.T) {
	members := &Members{Items: []*Member{
		{ID: "1", Name: "Alex"},
		{ID: "2", Name: "Jane"},
		{ID: "3", Name: "Bob"},
		{ID: "4", Name: "Carol"},
	}}

	without := members.Without("2")
	if strings.Join(without.Names(), ",") != "Alex,Bob,Carol" {
		t.Fatalf("unexpected names: %v", without.Names())
	}
	if members.Len() != 4 {
		t.Fatalf("expected Without to leave the original list intact")
	}

	removed := members.Exclude([]string{"3", "1", "9"})
	if strings.Join(removed, ",") != "1,3" {
		t.Fatalf("unexpected removed ids: %v", removed)
	}
	if strings.Join(members.IDs(), ",") != "2,4" {
		t.Fatalf("expected order to be preserved, got %v", members.IDs())
	}

	profiles := members.Profiles()
	if len(profiles) != 2 || profiles[0].Name != "Jane" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestProfileCopiesSlices(t *testing.T) {
	member := &Member{
		Name:          "Alex",
		Email:         "alex@example.com",
		Availability:  []string{"Weekdays"},
		SkillsOffered: []matching.Skill{{Name: "Go", Level: matching.Expert}},
	}

	profile := member.Profile()
	profile.Availability[0] = "Weekends"

	if member.Availability[0] != "Weekdays" {
		t.Fatalf("expected profile to own its slices")
	}
}

func TestSwipes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swipes.json")

	swipes, err := LoadSwipes(path)
	if err != nil {
		t.Fatalf("expected missing file to be an empty history, got %v", err)
	}

	swipes.Append(NewSwipe("user-2", Connect), NewSwipe("user-3", Pass))
	if err := swipes.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shorter := &Swipes{}
	shorter.Append(NewSwipe("user-4", Pass))
	if err := shorter.ToFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadSwipes(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Len() != 1 || loaded.Items[0].MemberID != "user-4" {
		t.Fatalf("expected file to be rewritten, got %+v", loaded.Items)
	}

	swipes.Append(loaded.Items...)
	if got := strings.Join(swipes.MemberIDs(Pass), ","); got != "user-3,user-4" {
		t.Fatalf("unexpected pass ids: %s", got)
	}
	if got := len(swipes.MemberIDs()); got != 3 {
		t.Fatalf("expected 3 swiped members, got %d", got)
	}
}

func TestLoadSwipesRejectsUnknownAction(t *testing.T) {
	path := writeFile(t, "swipes.json", `{"items": [{"member_id": "user-2", "action": "maybe", "at": "2024-05-01T10:00:00Z"}]}`)
	if _, err := LoadSwipes(path); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}
