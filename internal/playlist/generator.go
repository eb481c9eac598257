package playlist

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/vibeset/backend/internal/models"
)

// ErrEmptyPrompt is returned when the prompt is empty after trimming.
var ErrEmptyPrompt = errors.New("missing prompt")

const (
	minTracks     = 5
	maxTracks     = 10
	maxNameLength = 40
	namePrefix    = "AI Set: "
	defaultName   = "Custom Mix"
)

// Generator produces mock playlists from the static genre pools. The
// shuffle function is injectable so tests can substitute a deterministic
// source; the default is the package-level rand.Shuffle, which is safe
// for concurrent use.
type Generator struct {
	shuffle func(n int, swap func(i, j int))
}

// NewGenerator creates a Generator backed by math/rand.
func NewGenerator() *Generator {
	return &Generator{shuffle: rand.Shuffle}
}

// NewGeneratorWithShuffle creates a Generator with a custom shuffle
// function, used by tests to make track selection deterministic.
func NewGeneratorWithShuffle(shuffle func(n int, swap func(i, j int))) *Generator {
	return &Generator{shuffle: shuffle}
}

// Generate picks a genre pool for the prompt, shuffles it, and returns
// the first N tracks where N = clamp(len(prompt)/10, 5, 10), bounded by
// the pool size. The shuffled copy guarantees no duplicate tracks in one
// result.
func (g *Generator) Generate(prompt string) (*models.GenerateResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	pool := Pool(ClassifyPrompt(prompt))

	count := len([]rune(prompt)) / 10
	if count < minTracks {
		count = minTracks
	}
	if count > maxTracks {
		count = maxTracks
	}
	if count > len(pool) {
		count = len(pool)
	}

	g.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	return &models.GenerateResponse{
		Prompt:       prompt,
		PlaylistName: MakePlaylistName(prompt),
		Tracks:       pool[:count],
	}, nil
}

// MakePlaylistName derives a display name from the prompt: quote
// characters are stripped, the remainder is truncated to 40 runes with a
// trailing ellipsis, and a fixed label is prefixed. A prompt that is
// empty after cleaning yields "AI Set: Custom Mix".
func MakePlaylistName(prompt string) string {
	cleaned := strings.NewReplacer(`"`, "", `'`, "").Replace(prompt)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return namePrefix + defaultName
	}

	runes := []rune(cleaned)
	if len(runes) > maxNameLength {
		return namePrefix + string(runes[:maxNameLength]) + "…"
	}
	return namePrefix + cleaned
}
