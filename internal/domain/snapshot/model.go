package snapshot

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	keySeparator  = "_matches_"
	keyDateLayout = "20060102"
	keyExtension  = ".json"
)

// Object describes one stored blob.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

var leagueCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// NormalizeLeague trims and upper-cases code and reports whether the result
// is a usable competition code.
func NormalizeLeague(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code, leagueCodePattern.MatchString(code)
}

// KeyPrefix returns the listing prefix for a league, e.g. "PL_matches_".
func KeyPrefix(league string) string {
	return league + keySeparator
}

// PrefixLeague is the inverse of KeyPrefix. It reports false for prefixes
// that do not name exactly one league.
func PrefixLeague(prefix string) (string, bool) {
	league, ok := strings.CutSuffix(prefix, keySeparator)
	if !ok || league == "" || strings.Contains(league, keySeparator) {
		return "", false
	}
	return league, true
}

// Key returns the blob key for a league snapshot fetched on the given UTC date.
func Key(league string, fetchedAt time.Time) string {
	return KeyPrefix(league) + fetchedAt.UTC().Format(keyDateLayout) + keyExtension
}

// ParseKey splits a snapshot key into league code and fetch date.
func ParseKey(key string) (string, time.Time, error) {
	idx := strings.LastIndex(key, keySeparator)
	if idx <= 0 || !strings.HasSuffix(key, keyExtension) {
		return "", time.Time{}, fmt.Errorf("unexpected snapshot key %q", key)
	}

	league := key[:idx]
	rawDate := strings.TrimSuffix(key[idx+len(keySeparator):], keyExtension)
	date, err := time.ParseInLocation(keyDateLayout, rawDate, time.UTC)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parse snapshot key date %q: %w", key, err)
	}

	return league, date, nil
}

// Latest returns the most recently modified object. Ties keep the first
// object in the given order.
func Latest(objects []Object) (Object, bool) {
	if len(objects) == 0 {
		return Object{}, false
	}

	best := objects[0]
	for _, obj := range objects[1:] {
		if obj.LastModified.After(best.LastModified) {
			best = obj
		}
	}
	return best, true
}
