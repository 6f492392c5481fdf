package authz

// Effective combines the subject's tenant baseline with its project
// role override, field by field. The result is always a total
// PermissionSet. Pure and safe for concurrent use.
func Effective(subject Subject) PermissionSet {
	set := Baseline(subject.Role)
	if subject.ProjectRole == nil {
		return set
	}
	o := ProjectOverride(*subject.ProjectRole)
	for c := Capability(0); c < NumCapabilities; c++ {
		if o.mask[c] {
			set[c] = o.value[c]
		}
	}
	return set
}

// Has reports whether the subject holds a single capability.
func Has(subject Subject, c Capability) bool {
	return Effective(subject).Has(c)
}

// HasAll reports whether the subject holds every listed capability.
// An empty list is vacuously true.
func HasAll(subject Subject, caps ...Capability) bool {
	set := Effective(subject)
	for _, c := range caps {
		if !set.Has(c) {
			return false
		}
	}
	return true
}

// HasAny reports whether the subject holds at least one listed
// capability. An empty list is false.
func HasAny(subject Subject, caps ...Capability) bool {
	set := Effective(subject)
	for _, c := range caps {
		if set.Has(c) {
			return true
		}
	}
	return false
}
