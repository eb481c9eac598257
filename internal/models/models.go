package models

// Track is a fabricated track record from one of the static genre pools.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// PlaylistPlan is the AI-derived playlist concept: a name, a handful of
// short vibe tags, and a short description. Track selection is separate.
type PlaylistPlan struct {
	PlaylistName string   `json:"playlistName"`
	Vibes        []string `json:"vibes"`
	Description  string   `json:"description"`
}

// AI plan
type PlanRequest struct {
	Prompt string `json:"prompt"`
}

// Mock generation
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Prompt       string  `json:"prompt"`
	PlaylistName string  `json:"playlistName"`
	Tracks       []Track `json:"tracks"`
}

// Mock playlist creation
type CreatePlaylistRequest struct {
	PlaylistName string  `json:"playlistName"`
	Tracks       []Track `json:"tracks"`
}

type CreatePlaylistResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	PlaylistName string `json:"playlistName"`
	TrackCount   int    `json:"trackCount"`
}

// SpotifyUser is the profile summary shown in the UI. The same shape is
// stored (URL-escaped JSON) in the client-readable user cookie.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Session status
type UserStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SpotifyUser `json:"user,omitempty"`
	CachedUser    *SpotifyUser `json:"cachedUser,omitempty"`
}

// Debug
type EnvCheckResponse struct {
	HasOpenAIKey bool `json:"hasOpenAIKey"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
