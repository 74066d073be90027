package zones

import "context"

// Rate zones run 2 through 8 inclusive.
const (
	MinZone = 2
	MaxZone = 8
)

// RemoteClass is the carrier's delivery-area-surcharge tier for a
// destination postal code.
type RemoteClass string

const (
	RemoteNone     RemoteClass = ""
	RemoteDAS      RemoteClass = "DAS"
	RemoteExtended RemoteClass = "DAS_EXT"
	RemoteRemote   RemoteClass = "DAS_REMOTE"
	RemoteAlaska   RemoteClass = "DAS_ALASKA"
	RemoteHawaii   RemoteClass = "DAS_HAWAII"
)

// Info is a resolved destination: the rate zone plus remote classification.
type Info struct {
	Zone   int
	Remote bool
	Class  RemoteClass
}

// Resolver maps an origin/destination postal pair to zone info. The engine
// never resolves postal codes itself; a Resolver implementation supplies the
// zone and remote classification.
type Resolver interface {
	Resolve(ctx context.Context, fromPostal, toPostal string) (Info, error)
}
