package propstore

// DefaultPrefix is the guest property subtree location records are
// published under.
const DefaultPrefix = "/VirtualBox/GuestInfo/GPS"

// Keys holds the property paths one record is spread across. Location
// carries the full JSON record; the remaining keys are single-value
// conveniences for guest-side scripts that cannot parse JSON.
type Keys struct {
	Location  string
	Latitude  string
	Longitude string
	Timestamp string
}

// KeysFor returns the property paths under the given prefix. An empty
// prefix selects DefaultPrefix.
func KeysFor(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Location:  prefix + "/Location",
		Latitude:  prefix + "/Latitude",
		Longitude: prefix + "/Longitude",
		Timestamp: prefix + "/Timestamp",
	}
}
