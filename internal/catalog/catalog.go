// Package catalog загружает авторский контент: сцены, позиции камеры,
// объекты и диалоги NPC.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"investigation-server/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed content/default.yaml
var defaultContent embed.FS

// DefaultPath - путь к встроенному контенту.
const DefaultPath = "content/default.yaml"

var ErrInvalidCatalog = errors.New("invalid content catalog")

// Catalog - неизменяемый набор контента игры.
type Catalog struct {
	startScene string
	scenes     []models.SceneDef
	sceneIndex map[string]int
	dialogues  map[string]*models.DialogueSet
}

func (c *Catalog) StartScene() string { return c.startScene }

// Scene возвращает копию описания сцены.
func (c *Catalog) Scene(name string) (models.SceneDef, bool) {
	i, ok := c.sceneIndex[name]
	if !ok {
		return models.SceneDef{}, false
	}
	s := c.scenes[i]
	s.CameraPositions = append([]models.CameraPosition(nil), s.CameraPositions...)
	s.Interactables = append([]models.InteractableDef(nil), s.Interactables...)
	return s, true
}

// SceneNames - имена сцен в порядке описания; порядок задает индексы сцен.
func (c *Catalog) SceneNames() []string {
	out := make([]string, 0, len(c.scenes))
	for _, s := range c.scenes {
		out = append(out, s.Name)
	}
	return out
}

// Dialogue ищет набор диалогов по ID.
func (c *Catalog) Dialogue(id string) (*models.DialogueSet, bool) {
	d, ok := c.dialogues[id]
	return d, ok
}

func (c *Catalog) DialogueIDs() []string {
	out := make([]string, 0, len(c.dialogues))
	for id := range c.dialogues {
		out = append(out, id)
	}
	return out
}

// LoadDefault загружает встроенный контент.
func LoadDefault() (*Catalog, error) {
	return LoadFS(defaultContent, DefaultPath)
}

// LoadFS читает и проверяет файл контента.
func LoadFS(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse проверяет YAML по схеме, разбирает его и сверяет ссылки между
// сценами, дверями и диалогами.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
	}
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(raw); err != nil {
		return nil, err
	}

	var doc catalogDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return build(doc)
}

func build(doc catalogDoc) (*Catalog, error) {
	c := &Catalog{
		startScene: doc.StartScene,
		sceneIndex: make(map[string]int, len(doc.Scenes)),
		dialogues:  make(map[string]*models.DialogueSet, len(doc.Dialogues)),
	}

	for _, d := range doc.Dialogues {
		if _, dup := c.dialogues[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate dialogue %q", ErrInvalidCatalog, d.ID)
		}
		set := d
		if _, ok := set.Initial(); !ok {
			return nil, fmt.Errorf("%w: dialogue %q has no initial node %q", ErrInvalidCatalog, d.ID, d.InitialID)
		}
		c.dialogues[d.ID] = &set
	}

	for _, sd := range doc.Scenes {
		if _, dup := c.sceneIndex[sd.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate scene %q", ErrInvalidCatalog, sd.Name)
		}
		scene := models.SceneDef{Name: sd.Name, StartingPosition: sd.StartingPosition}
		for _, cp := range sd.CameraPositions {
			scene.CameraPositions = append(scene.CameraPositions, cp.model())
		}
		seen := make(map[string]bool, len(sd.Interactables))
		for _, id := range sd.Interactables {
			if seen[id.ID] {
				return nil, fmt.Errorf("%w: scene %q has duplicate interactable %q", ErrInvalidCatalog, sd.Name, id.ID)
			}
			seen[id.ID] = true
			def, err := id.model()
			if err != nil {
				return nil, fmt.Errorf("%w: scene %q: %v", ErrInvalidCatalog, sd.Name, err)
			}
			scene.Interactables = append(scene.Interactables, def)
		}
		c.sceneIndex[sd.Name] = len(c.scenes)
		c.scenes = append(c.scenes, scene)
	}

	if _, ok := c.sceneIndex[c.startScene]; !ok {
		return nil, fmt.Errorf("%w: start scene %q is not defined", ErrInvalidCatalog, c.startScene)
	}
	for _, s := range c.scenes {
		for _, def := range s.Interactables {
			if def.Door != nil && def.Door.TargetScene != "" {
				if _, ok := c.sceneIndex[def.Door.TargetScene]; !ok {
					return nil, fmt.Errorf("%w: door %q leads to unknown scene %q", ErrInvalidCatalog, def.ID, def.Door.TargetScene)
				}
			}
			if def.NPC != nil {
				if _, ok := c.dialogues[def.NPC.DialogueID]; !ok {
					return nil, fmt.Errorf("%w: npc %q references unknown dialogue %q", ErrInvalidCatalog, def.ID, def.NPC.DialogueID)
				}
			}
		}
	}
	return c, nil
}
