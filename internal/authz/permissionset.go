package authz

// PermissionSet is a total mapping from every Capability to a boolean.
// The fixed-size array makes totality structural: there is no way to
// construct a set that is missing an entry.
type PermissionSet [NumCapabilities]bool

// Has reports the value for a single capability. Out-of-range
// capabilities are denied.
func (s PermissionSet) Has(c Capability) bool {
	if c < 0 || c >= NumCapabilities {
		return false
	}
	return s[c]
}

// Snapshot renders the set as a name-keyed map for UI consumption.
// The UI must never treat the snapshot as authoritative; every
// mutating action is re-checked server-side.
func (s PermissionSet) Snapshot() map[string]bool {
	out := make(map[string]bool, NumCapabilities)
	for c := Capability(0); c < NumCapabilities; c++ {
		out[c.String()] = s[c]
	}
	return out
}
