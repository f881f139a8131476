// Package metrics holds the static catalog of collectable metrics and the
// selection/partition helpers used when building reports.
package metrics

// Platform tags a metric with the half of a connection that serves it.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// DisplayHint tells the presentation layer how a metric value should render.
type DisplayHint string

const (
	HintCount      DisplayHint = "count"
	HintPercentage DisplayHint = "percentage"
)

// Definition describes one collectable metric. Definitions are static
// reference data: loaded once, never persisted per user.
type Definition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Platform    Platform    `json:"platform"`
	Hint        DisplayHint `json:"display_hint"`
	Description string      `json:"description"`
}

var catalog = []Definition{
	{
		ID:          "page_impressions",
		Name:        "Impressions",
		Platform:    PlatformFacebook,
		Hint:        HintCount,
		Description: "Total number of times your content was displayed",
	},
	{
		ID:          "page_engaged_users",
		Name:        "Engaged users",
		Platform:    PlatformFacebook,
		Hint:        HintCount,
		Description: "People who interacted with your page",
	},
	{
		ID:          "page_post_engagements",
		Name:        "Post engagements",
		Platform:    PlatformFacebook,
		Hint:        HintCount,
		Description: "Likes, comments, shares and clicks on your posts",
	},
	{
		ID:          "page_fans",
		Name:        "Page fans",
		Platform:    PlatformFacebook,
		Hint:        HintCount,
		Description: "Total number of people who like your page",
	},
	{
		ID:          "impressions",
		Name:        "Instagram impressions",
		Platform:    PlatformInstagram,
		Hint:        HintCount,
		Description: "Number of times your posts were seen",
	},
	{
		ID:          "reach",
		Name:        "Instagram reach",
		Platform:    PlatformInstagram,
		Hint:        HintCount,
		Description: "Number of unique accounts that saw your posts",
	},
	{
		ID:          "engagement",
		Name:        "Instagram engagement",
		Platform:    PlatformInstagram,
		Hint:        HintCount,
		Description: "Likes, comments and saves",
	},
	{
		ID:          "follower_count",
		Name:        "Follower count",
		Platform:    PlatformInstagram,
		Hint:        HintCount,
		Description: "Total number of people following you",
	},
}

var byID = func() map[string]Definition {
	m := make(map[string]Definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// All returns every metric definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// ByPlatform returns the definitions served by the given platform.
func ByPlatform(p Platform) []Definition {
	var out []Definition
	for _, d := range catalog {
		if d.Platform == p {
			out = append(out, d)
		}
	}
	return out
}

// Lookup resolves a metric id against the catalog.
func Lookup(id string) (Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// HintFor resolves the display hint for a metric name. Names missing from the
// catalog render as plain counts.
func HintFor(name string) DisplayHint {
	if d, ok := byID[name]; ok {
		return d.Hint
	}
	return HintCount
}

// Partition intersects the selected metric ids with the subset of the catalog
// served by the given platform, preserving selection order. Unknown ids are
// dropped silently.
func Partition(ids []string, p Platform) []string {
	var out []string
	for _, id := range ids {
		if d, ok := byID[id]; ok && d.Platform == p {
			out = append(out, id)
		}
	}
	return out
}
