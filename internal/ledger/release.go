package ledger

import (
	"sort"
	"time"

	"github.com/rohankatakam/relver/internal/version"
)

// latestRelease picks the release with the latest parsed date. Map order
// is never relied on: ties fall back to the higher version, then the key.
func latestRelease(releases map[string]*Release) (string, *Release) {
	keys := sortedKeys(releases)
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := releases[keys[i]], releases[keys[j]]
		ta, tb := a.Time(), b.Time()
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		c := version.Compare(version.Parse(a.Version), version.Parse(b.Version))
		if c != 0 {
			return c > 0
		}
		return keys[i] > keys[j]
	})
	return keys[0], releases[keys[0]]
}

// consolidate folds info into an existing release and moves it to the new
// version key.
func consolidate(doc *Document, key string, latest *Release, next string, now time.Time, info *ReleaseInfo) {
	latest.Version = next
	latest.Date = now.Format(DateLayout)
	latest.Summary = info.Summary
	latest.Changes = appendUnique(latest.Changes, info.Changes)
	if len(latest.Technical) > 0 || len(info.Technical) > 0 {
		latest.Technical = appendUnique(latest.Technical, info.Technical)
	}
	latest.Rescore()

	if key != next {
		delete(doc.Releases, key)
	}
	doc.Releases[next] = latest
}

// appendUnique appends the entries of incoming not already present,
// keeping the original order of both slices.
func appendUnique(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := copyStrings(existing)
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range incoming {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// copyStrings copies s, returning an empty non-nil slice for nil input so
// the document always serializes a list.
func copyStrings(s []string) []string {
	out := make([]string, len(s), len(s)+4)
	copy(out, s)
	return out
}
