package playlist

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vibeset/backend/internal/models"
)

var (
	// ErrEmptyName is returned when the playlist name is empty after trimming.
	ErrEmptyName = errors.New("missing playlistName")
	// ErrNoTracks is returned when there are no tracks to add.
	ErrNoTracks = errors.New("no tracks to add")
)

const playlistURLPrefix = "https://open.spotify.com/playlist/"

// Creator fakes provider-side playlist creation: it fabricates an opaque
// id and a playlist URL without any external call. The id generator is
// injectable so tests can assert on a known value.
type Creator struct {
	newID func() string
}

// NewCreator creates a Creator with UUID-backed id generation.
func NewCreator() *Creator {
	return &Creator{newID: mockID}
}

// NewCreatorWithID creates a Creator with a custom id generator.
func NewCreatorWithID(newID func() string) *Creator {
	return &Creator{newID: newID}
}

// Create validates the request and returns a fabricated creation result
// whose shape matches a real provider response.
func (c *Creator) Create(playlistName string, tracks []models.Track) (*models.CreatePlaylistResponse, error) {
	playlistName = strings.TrimSpace(playlistName)
	if playlistName == "" {
		return nil, ErrEmptyName
	}
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	id := c.newID()
	return &models.CreatePlaylistResponse{
		ID:           id,
		URL:          playlistURLPrefix + id,
		PlaylistName: playlistName,
		TrackCount:   len(tracks),
	}, nil
}

func mockID() string {
	return "mock_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
