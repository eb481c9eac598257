// Package playlist holds the mock playlist machinery: static genre pools,
// the keyword classifier that picks a pool for a prompt, the generator
// that fills a playlist concept with pool tracks, and the mock creator
// that fakes a provider-side playlist.
package playlist

import (
	"strings"

	"github.com/vibeset/backend/internal/models"
)

const defaultPool = "electronic"

// pools maps a genre key to its fixed track list. Tracks are fabricated
// and never persisted; accessors return copies so the backing arrays
// stay immutable.
var pools = map[string][]models.Track{
	"rock": {
		{ID: "r1", Title: "Amp Bloom", Artist: "Glass Riffs"},
		{ID: "r2", Title: "Neon Garage", Artist: "The Backline"},
		{ID: "r3", Title: "Nightdrive Anthem", Artist: "Chrome & Ash"},
		{ID: "r4", Title: "Razor Chorus", Artist: "Static Hearts"},
		{ID: "r5", Title: "Wide Open Sky", Artist: "Midwest Moon"},
	},
	"electronic": {
		{ID: "e1", Title: "Midnight Circuit", Artist: "Neon Static"},
		{ID: "e2", Title: "Soft Focus", Artist: "Ambient Avenue"},
		{ID: "e3", Title: "Voltage Drift", Artist: "Low Key Logic"},
		{ID: "e4", Title: "Rain on Glass", Artist: "Nocturne Dept."},
		{ID: "e5", Title: "Late Compile", Artist: "Sine & Coffee"},
	},
	"hiphop": {
		{ID: "h1", Title: "Lo-Fi Ledger", Artist: "Sidechain Poets"},
		{ID: "h2", Title: "Corner Lights", Artist: "Kinetic Verse"},
		{ID: "h3", Title: "Afterhours Loop", Artist: "Basement Bloom"},
		{ID: "h4", Title: "Backbeat Blueprint", Artist: "Metro Ink"},
		{ID: "h5", Title: "Coffee & Concrete", Artist: "Night Shift"},
	},
	"pop": {
		{ID: "p1", Title: "City Spark", Artist: "Weekend Color"},
		{ID: "p2", Title: "Golden Hour Texts", Artist: "Paper Satellites"},
		{ID: "p3", Title: "Runway Lights", Artist: "Velvet Neon"},
		{ID: "p4", Title: "Heartbeat Emoji", Artist: "Stereo Summer"},
		{ID: "p5", Title: "Stay Up Late", Artist: "Candy Static"},
	},
}

type genreRule struct {
	keywords []string
	pool     string
}

// genreRules is evaluated in order and the first match wins. The order
// is part of the contract: a prompt mentioning both "rock" and "pop"
// resolves to rock because the rock rule is checked first.
var genreRules = []genreRule{
	{keywords: []string{"rock", "guitar", "indie"}, pool: "rock"},
	{keywords: []string{"edm", "electronic", "ambient", "techno"}, pool: "electronic"},
	{keywords: []string{"hip hop", "hiphop", "rap", "lofi"}, pool: "hiphop"},
	{keywords: []string{"pop", "dance", "radio"}, pool: "pop"},
}

// ClassifyPrompt maps a free-text prompt to a genre pool key. Matching is
// case-insensitive substring membership; unmatched prompts fall back to
// the electronic pool.
func ClassifyPrompt(prompt string) string {
	p := strings.ToLower(prompt)
	for _, rule := range genreRules {
		for _, kw := range rule.keywords {
			if strings.Contains(p, kw) {
				return rule.pool
			}
		}
	}
	return defaultPool
}

// Pool returns a copy of the track list for the given genre key, or the
// default pool when the key is unknown.
func Pool(genre string) []models.Track {
	tracks, ok := pools[genre]
	if !ok {
		tracks = pools[defaultPool]
	}
	out := make([]models.Track, len(tracks))
	copy(out, tracks)
	return out
}
