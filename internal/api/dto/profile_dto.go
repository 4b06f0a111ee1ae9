package dto

// ProfileUpdateRequest payload for display-name changes.
type ProfileUpdateRequest struct {
	Name string `json:"name"`
}
