package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"investigation-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCatalog = `
startScene: room
scenes:
  - name: room
    cameraPositions:
      - name: Door
        index: 0
        position: { x: 0, y: 1, z: 0 }
`

func TestLoadDefault(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "apartment", c.StartScene())
	assert.Equal(t, []string{"apartment", "hallway", "basement"}, c.SceneNames())

	apt, ok := c.Scene("apartment")
	require.True(t, ok)
	require.Len(t, apt.CameraPositions, 3)
	assert.Equal(t, 50.0, apt.CameraPositions[1].FieldOfView)
	assert.True(t, apt.CameraPositions[1].IsInvestigationFocus)
	assert.Equal(t, models.DefaultFieldOfView, apt.CameraPositions[0].FieldOfView)
	assert.True(t, apt.CameraPositions[0].AllowFullHorizontalRotation)
	assert.Equal(t, -30.0, apt.CameraPositions[2].MinVerticalAngle)

	var knife models.InteractableDef
	for _, d := range apt.Interactables {
		if d.ID == "knife" {
			knife = d
		}
	}
	assert.Equal(t, models.InteractionInvestigate, knife.Type)
	assert.True(t, knife.Evidence.Valid)
	assert.True(t, knife.Evidence.RequiresZoom)
	assert.True(t, knife.CanInteract)

	hall, ok := c.Scene("hallway")
	require.True(t, ok)
	var npc models.InteractableDef
	for _, d := range hall.Interactables {
		if d.ID == "mrs_hale" {
			npc = d
		}
	}
	require.NotNil(t, npc.NPC)
	assert.Equal(t, "hale_first_meeting", npc.NPC.DialogueID)

	set, ok := c.Dialogue("hale_first_meeting")
	require.True(t, ok)
	node, ok := set.Initial()
	require.True(t, ok)
	assert.Equal(t, "greet", node.ID)
	require.Len(t, node.Options, 4)
	assert.True(t, node.Options[1].IsGaslighting)
	assert.Equal(t, "previous_tenant", node.Options[3].NextID)
	assert.ElementsMatch(t, []string{"hale_first_meeting"}, c.DialogueIDs())
}

func TestCatalog_SceneReturnsCopy(t *testing.T) {
	c, err := LoadDefault()
	require.NoError(t, err)

	s, _ := c.Scene("apartment")
	s.Interactables[0].Name = "changed"
	s2, _ := c.Scene("apartment")
	assert.NotEqual(t, "changed", s2.Interactables[0].Name)

	_, ok := c.Scene("attic")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	t.Run("minimal document", func(t *testing.T) {
		c, err := Parse([]byte(minimalCatalog))
		require.NoError(t, err)
		assert.Equal(t, "room", c.StartScene())
		assert.Empty(t, c.DialogueIDs())
	})

	t.Run("fractional meter values", func(t *testing.T) {
		c, err := Parse([]byte(minimalCatalog + `
dialogues:
  - id: chat
    nodes:
      - id: hello
        text: Hi
        options:
          - { text: Nod, sanityChange: -2.5, clarityChange: 0.75, minClarity: 42.5 }
`))
		require.NoError(t, err)
		set, ok := c.Dialogue("chat")
		require.True(t, ok)
		opt := set.Nodes[0].Options[0]
		assert.Equal(t, -2.5, opt.SanityChange)
		assert.Equal(t, 0.75, opt.ClarityChange)
		assert.Equal(t, 42.5, opt.MinClarity)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"not yaml", "startScene: [unclosed"},
		{"missing scenes", "startScene: room\n"},
		{"unknown field", minimalCatalog + "weather: rain\n"},
		{"bad id format", `
startScene: Room
scenes:
  - name: Room
    cameraPositions:
      - { name: Door, index: 0, position: { x: 0 } }
`},
		{"unknown start scene", `
startScene: cellar
scenes:
  - name: room
    cameraPositions:
      - { name: Door, index: 0, position: { x: 0 } }
`},
		{"unknown interaction type", `
startScene: room
scenes:
  - name: room
    cameraPositions:
      - { name: Door, index: 0, position: { x: 0 } }
    interactables:
      - { id: box, type: kick }
`},
		{"door to unknown scene", `
startScene: room
scenes:
  - name: room
    cameraPositions:
      - { name: Door, index: 0, position: { x: 0 } }
    interactables:
      - { id: exit, type: door, door: { targetScene: street } }
`},
		{"npc without dialogue", `
startScene: room
scenes:
  - name: room
    cameraPositions:
      - { name: Door, index: 0, position: { x: 0 } }
    interactables:
      - { id: bob, type: talk, npc: { dialogue: bob_talk } }
`},
		{"duplicate scene", minimalCatalog + `
  - name: room
    cameraPositions:
      - { name: Door, index: 0, position: { x: 0 } }
`},
		{"dialogue without initial node", minimalCatalog + `
dialogues:
  - id: chat
    initial: missing
    nodes:
      - { id: hello, text: Hi }
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"content.yaml": {Data: []byte(minimalCatalog)}}

	c, err := LoadFS(fsys, "content.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"room"}, c.SceneNames())

	_, err = LoadFS(fsys, "missing.yaml")
	assert.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		r, err := LoadRules(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultRules(), r)
	})

	t.Run("file overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_photos_per_day: 3\nfade_duration: 2s\n"), 0o600))

		r, err := LoadRules(path)
		require.NoError(t, err)
		assert.Equal(t, 3, r.MaxPhotosPerDay)
		assert.Equal(t, 2*time.Second, r.FadeDuration)
		assert.Equal(t, 30, r.TotalEvidencePieces)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("RULES_GASLIGHTING_PENALTY", "9")
		r, err := LoadRules("")
		require.NoError(t, err)
		assert.Equal(t, 9.0, r.GaslightingPenalty)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("RULES_MAX_PHOTOS_PER_DAY", "0")
		_, err := LoadRules("")
		assert.Error(t, err)
	})
}
