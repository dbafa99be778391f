// Package prompt generates the drawing prompts distributed to real players.
package prompt

import (
	"strings"

	"github.com/sketchspy/sketchspy/internal/core"
	"github.com/sketchspy/sketchspy/internal/domain"
)

// ImposterPrompt is the fixed text imposters receive instead of the real
// prompt.
const ImposterPrompt = "You cannot see the prompt"

type bank struct {
	subjects  []string
	actions   []string
	locations []string
	others    []string
}

var banks = map[domain.Difficulty]bank{
	domain.DifficultyEasy: {
		subjects:  []string{"A dog", "A cat", "A snowman", "A robot"},
		actions:   []string{"sleeping", "running", "eating pizza", "waving"},
		locations: []string{"in a park", "on a beach", "at home", "in a field"},
		others:    []string{"", "at sunset", "in the rain"},
	},
	domain.DifficultyMedium: {
		subjects:  []string{"A pirate", "An astronaut", "A wizard", "A giraffe", "A chef"},
		actions:   []string{"juggling", "painting a portrait", "riding a bicycle", "flying a kite", "walking"},
		locations: []string{"on the moon", "in a castle", "in a field", "under the sea", "on a mountain"},
		others:    []string{"", "during a storm", "with a broken arm", "wearing sunglasses"},
	},
	domain.DifficultyHard: {
		subjects:  []string{"A left-handed violinist", "A retired dragon", "A nervous ghost", "Twin acrobats"},
		actions:   []string{"losing a chess match", "conducting an orchestra", "parallel parking", "baking a wedding cake"},
		locations: []string{"inside a clock tower", "on a tightrope", "in a hall of mirrors", "at a silent auction"},
		others:    []string{"upside down", "during an eclipse", "while being photographed", "in complete darkness"},
	},
}

// Generator picks one prompt per round. Custom prompt lists from the lobby
// settings take precedence over the built-in banks.
type Generator struct {
	sel *core.Selector
}

func NewGenerator(sel *core.Selector) *Generator {
	if sel == nil {
		sel = core.NewSelector()
	}
	return &Generator{sel: sel}
}

func (g *Generator) Generate(s domain.Settings) string {
	if len(s.CustomPrompts) > 0 {
		p, _ := core.PickOne(g.sel, s.CustomPrompts)
		return p
	}
	b, ok := banks[s.Difficulty]
	if !ok {
		b = banks[domain.DifficultyMedium]
	}
	subject, _ := core.PickOne(g.sel, b.subjects)
	action, _ := core.PickOne(g.sel, b.actions)
	location, _ := core.PickOne(g.sel, b.locations)
	other, _ := core.PickOne(g.sel, b.others)

	parts := []string{subject, action, location}
	if other != "" {
		parts = append(parts, other)
	}
	return strings.Join(parts, " ")
}
