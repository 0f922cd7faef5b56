package wwdc

// Topic is an official Apple Developer video category.
type Topic struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// OfficialTopics returns the fixed set of topic slugs used on
// developer.apple.com/videos, in the order they are crawled. The order
// matters: when a session appears under multiple topics it is assigned
// to the first one.
func OfficialTopics() []Topic {
	return []Topic{
		{Slug: "accessibility-inclusion", Name: "Accessibility & Inclusion"},
		{Slug: "app-services", Name: "App Services"},
		{Slug: "app-store-distribution-marketing", Name: "App Store, Distribution & Marketing"},
		{Slug: "audio-video", Name: "Audio & Video"},
		{Slug: "business-education", Name: "Business & Education"},
		{Slug: "design", Name: "Design"},
		{Slug: "developer-tools", Name: "Developer Tools"},
		{Slug: "essentials", Name: "Essentials"},
		{Slug: "graphics-games", Name: "Graphics & Games"},
		{Slug: "health-fitness", Name: "Health & Fitness"},
		{Slug: "machine-learning-ai", Name: "Machine Learning & AI"},
		{Slug: "maps-location", Name: "Maps & Location"},
		{Slug: "photos-camera", Name: "Photos & Camera"},
		{Slug: "privacy-security", Name: "Privacy & Security"},
		{Slug: "safari-web", Name: "Safari & Web"},
		{Slug: "spatial-computing", Name: "Spatial Computing"},
		{Slug: "swift", Name: "Swift"},
		{Slug: "swiftui-ui-frameworks", Name: "SwiftUI & UI Frameworks"},
		{Slug: "system-services", Name: "System Services"},
	}
}

// IsOfficialTopic reports whether slug belongs to the official topic set.
func IsOfficialTopic(slug string) bool {
	for _, t := range OfficialTopics() {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// TopicMap maps a topic slug to the ordered session ids listed under it.
type TopicMap map[string][]string

// TopicError records a topic-listing page that could not be fetched or
// parsed. One topic's failure never aborts the others.
type TopicError struct {
	Slug string
	Err  error
}

func (e TopicError) Error() string {
	return "topic " + e.Slug + ": " + e.Err.Error()
}

func (e TopicError) Unwrap() error { return e.Err }

// SessionLink is one session reference found on a topic-listing page.
type SessionLink struct {
	ID    string
	Year  int
	Title string
	URL   string
}

// TopicParser extracts the ordered session links for a single year from
// a topic-listing page. Links from other years are filtered out.
type TopicParser interface {
	SessionLinks(html string, year int) ([]SessionLink, error)
}
