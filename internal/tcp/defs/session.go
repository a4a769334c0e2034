package defs

// StopPolicy decides who is told to stop once the search concludes.
type StopPolicy string

const (
	// StopPolicyBroadcast pushes the stop sentinel to every live session.
	StopPolicyBroadcast StopPolicy = "broadcast"
	// StopPolicyReporter only answers the session that concluded the search;
	// the others stop at their next assignment check.
	StopPolicyReporter StopPolicy = "reporter"
)

// Valid reports whether p is a known policy.
func (p StopPolicy) Valid() bool {
	return p == StopPolicyBroadcast || p == StopPolicyReporter
}
