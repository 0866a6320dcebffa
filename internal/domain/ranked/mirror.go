package ranked

import "github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"

// listWrapperKeys are the envelope keys mirrors use around a list of player records.
var listWrapperKeys = []string{"items", "data", "players", "results", "list", "player"}

// SelectTaggedRecord finds the record describing tag inside a mirror response. A flat
// object must carry the tag itself; list-shaped responses (bare arrays or arrays under
// a wrapper key) must contain an element with a matching tag. Anything else is a miss,
// never a guess.
func SelectTaggedRecord(root jsonvalue.Value, tag string) (jsonvalue.Value, bool) {
	want := NormalizeTag(tag)

	if list, ok := root.Array(); ok {
		return findTagged(list, want)
	}
	obj, ok := root.Object()
	if !ok {
		return jsonvalue.Null(), false
	}
	if recordMatches(root, want) {
		return root, true
	}
	for _, key := range listWrapperKeys {
		inner, found := obj.Get(key)
		if !found {
			continue
		}
		if list, ok := inner.Array(); ok {
			return findTagged(list, want)
		}
		if recordMatches(inner, want) {
			return inner, true
		}
	}
	return jsonvalue.Null(), false
}

func findTagged(list *jsonvalue.Array, want string) (jsonvalue.Value, bool) {
	for _, item := range list.Items() {
		if recordMatches(item, want) {
			return item, true
		}
	}
	return jsonvalue.Null(), false
}

func recordMatches(record jsonvalue.Value, want string) bool {
	if _, ok := record.Object(); !ok {
		return false
	}
	raw, ok := record.Get("tag").Str()
	if !ok || raw == "" {
		return false
	}
	return NormalizeTag(raw) == want
}
