package storage

// Preference keys, matching the names the web front end used in localStorage.
const (
	KeySelectedAPIs = "selectedAPIs"
	KeyCustomAPIs   = "customAPIs"
)

// CustomPrefix marks selection ids that point into the custom source list.
const CustomPrefix = "custom_"

// CustomAPI is a user-defined source as stored under KeyCustomAPIs.
type CustomAPI struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}
