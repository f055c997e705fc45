package letters

// Compute applies the correctness policy to the legacy assigned-letters view
// and returns (isCorrect, writtenWord):
//
//   - no assigned letters: trivially correct, written = target (nothing has
//     been reviewed yet)
//   - the written characters form a subsequence of the target (exact match
//     included): correct, written = target
//   - otherwise incorrect; written is empty when any blocker is present,
//     else the literal concatenation of assigned characters.
func Compute(assigned map[int]string, target string) (bool, string) {
	if len(assigned) == 0 {
		return true, target
	}
	written := Written(assigned)
	if written != "" && isSubsequence(written, target) {
		return true, target
	}
	if hasBlocker(assigned) {
		return false, ""
	}
	return false, written
}

// Written concatenates the assigned characters in ascending event-index
// order, skipping blockers.
func Written(assigned map[int]string) string {
	if len(assigned) == 0 {
		return ""
	}
	var out []rune
	for _, idx := range sortedKeys(assigned) {
		out = append(out, []rune(assigned[idx])...)
	}
	return string(out)
}

// isSubsequence reports whether every rune of written appears in target in
// the same relative order, matching greedily left to right with each target
// rune consumed at most once. Equal strings are trivially subsequences, so
// the exact-match case needs no separate test.
func isSubsequence(written, target string) bool {
	targetRunes := []rune(target)
	ti := 0
	for _, r := range written {
		found := false
		for ti < len(targetRunes) {
			match := targetRunes[ti] == r
			ti++
			if match {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasBlocker(assigned map[int]string) bool {
	for _, char := range assigned {
		if char == "" {
			return true
		}
	}
	return false
}

// ShouldBeLowQuality reports whether the annotation state warrants an
// automatic promotion to the low-quality tier: any blocker present, or the
// first assigned letter not starting on the word's first stroke. The
// promotion is one-way; callers never downgrade automatically.
func ShouldBeLowQuality(assigned map[int]string, strokeStarts []int) bool {
	if len(assigned) == 0 {
		return false
	}
	if hasBlocker(assigned) {
		return true
	}
	keys := sortedKeys(assigned)
	return len(strokeStarts) > 0 && keys[0] != strokeStarts[0]
}
