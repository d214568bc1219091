package phone

// NigerianPrefixes lists the valid Nigerian mobile network prefixes
// (first 3 digits of the 10-digit subscriber number). Updated as of 2024.
var NigerianPrefixes = []string{
	// MTN
	"703", "706", "801", "803", "806", "810", "813", "814", "816", "903", "906",
	// Airtel
	"701", "708", "802", "808", "812", "901", "902", "904", "907", "912",
	// Glo
	"705", "805", "807", "811", "815", "905", "915",
	// 9mobile (Etisalat)
	"809", "817", "818", "908", "909",
	// Ntel
	"804",
	// Smile
	"702",
	// Additional allocations
	"910", "911", "913", "914", "916", "917", "918",
}

var prefixSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(NigerianPrefixes))
	for _, p := range NigerianPrefixes {
		set[p] = struct{}{}
	}
	return set
}()

// IsValidPrefix reports whether prefix is a known Nigerian mobile network prefix.
func IsValidPrefix(prefix string) bool {
	_, ok := prefixSet[prefix]
	return ok
}
