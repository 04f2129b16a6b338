package ledger

import (
	"sort"

	"github.com/rohankatakam/relver/internal/version"
)

// Migrate upgrades legacy document shapes in place and reports whether
// anything changed. It is idempotent: running it on an already migrated
// document is a no-op.
//
// Legacy documents used three-part versions ("1.02.003") with no build
// component. A missing build decodes as zero; three-part versions and map
// keys gain a ".000" build. When both the legacy and the four-part key are
// present the four-part entry wins.
func Migrate(doc *Document) bool {
	changed := false

	if doc.Changelog == nil {
		doc.Changelog = map[string]string{}
		changed = true
	}
	if doc.Releases == nil {
		doc.Releases = map[string]*Release{}
		changed = true
	}

	// Top-level version. The string is authoritative; the numeric fields
	// are re-derived from it.
	current := doc.Version
	if current == "" {
		current = version.Format(doc.Major, doc.Minor, doc.Update, doc.Build)
	}
	id := version.Parse(version.Canonicalize(current))
	if doc.Version != id.String() ||
		doc.Major != id.Major || doc.Minor != id.Minor ||
		doc.Update != id.Update || doc.Build != id.Build {
		doc.SetVersion(id)
		changed = true
	}

	for _, key := range sortedKeys(doc.Releases) {
		release := doc.Releases[key]
		if release == nil {
			delete(doc.Releases, key)
			changed = true
			continue
		}

		if release.Version == "" {
			release.Version = version.Canonicalize(key)
			changed = true
		} else if version.IsLegacy(release.Version) {
			release.Version = version.Canonicalize(release.Version)
			changed = true
		}

		newKey := version.Canonicalize(key)
		if newKey == key {
			continue
		}
		if _, exists := doc.Releases[newKey]; !exists {
			doc.Releases[newKey] = release
		}
		delete(doc.Releases, key)
		changed = true
	}

	for _, key := range sortedKeys(doc.Changelog) {
		newKey := version.Canonicalize(key)
		if newKey == key {
			continue
		}
		if _, exists := doc.Changelog[newKey]; !exists {
			doc.Changelog[newKey] = doc.Changelog[key]
		}
		delete(doc.Changelog, key)
		changed = true
	}

	return changed
}

// LegacyKeys lists the three-part keys still present in a document. Empty
// after Migrate.
func LegacyKeys(doc *Document) []string {
	var out []string
	if version.IsLegacy(doc.Version) {
		out = append(out, doc.Version)
	}
	for _, key := range sortedKeys(doc.Releases) {
		if version.IsLegacy(key) {
			out = append(out, key)
		}
	}
	for _, key := range sortedKeys(doc.Changelog) {
		if version.IsLegacy(key) {
			out = append(out, key)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
