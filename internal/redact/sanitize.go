package redact

// Sanitize returns a copy of v with every sensitive-keyed mapping value
// replaced by Mask. Non-sensitive members are sanitized recursively;
// sequences keep their length and order; scalars pass through unchanged.
//
// Sanitize is pure and idempotent: it never returns an error, never mutates
// its input, and Sanitize(Sanitize(v)) == Sanitize(v).
func Sanitize(v Value, keys *KeySet) Value {
	switch v.kind {
	case KindMapping:
		members := make([]Member, len(v.members))
		for i, m := range v.members {
			if keys.Contains(m.Key) {
				members[i] = Member{Key: m.Key, Val: Scalar(Mask)}
				continue
			}
			members[i] = Member{Key: m.Key, Val: Sanitize(m.Val, keys)}
		}
		return Value{kind: KindMapping, members: members}

	case KindSequence:
		elems := make([]Value, len(v.elems))
		for i, e := range v.elems {
			elems[i] = Sanitize(e, keys)
		}
		return Value{kind: KindSequence, elems: elems}

	default:
		return v
	}
}

// SanitizeAny adapts an arbitrary Go value into the payload union and
// sanitizes it in one step.
func SanitizeAny(v any, keys *KeySet) Value {
	return Sanitize(FromAny(v), keys)
}
