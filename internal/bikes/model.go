package bikes

import (
	"strings"

	"bikeroute-client/internal/loader"
	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/api"
)

const MsgLoadFailed = "Could not load the bike types."

// BikeType is one entry of the bike type catalog.
type BikeType struct {
	ID    int    `json:"id"`
	Label string `json:"tipo"`
}

// NewLoader returns a catalog loader whose default selection is the first type.
func NewLoader(client loader.Lister, n notify.Notifier) *loader.Loader[BikeType] {
	return loader.New[BikeType](client, api.PathBikes, n, MsgLoadFailed)
}

// Labels lists the labels in catalog order.
func Labels(types []BikeType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Label)
	}
	return out
}

// ByLabel matches a selected label against the catalog. The match is exact after trimming.
func ByLabel(label string) func(BikeType) bool {
	label = strings.TrimSpace(label)
	return func(t BikeType) bool { return t.Label == label }
}
