package ranked

import "github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"

type visitFunc func(key string, info KeyInfo, value jsonvalue.Value)

// walk visits every object member reachable from root, parents before children and
// siblings in document order. It uses an explicit stack and tracks visited objects and
// arrays by identity, so deep or cyclic graphs terminate.
func walk(root jsonvalue.Value, visit visitFunc) {
	seenObjects := make(map[*jsonvalue.Object]struct{})
	seenArrays := make(map[*jsonvalue.Array]struct{})
	stack := []jsonvalue.Value{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if arr, ok := current.Array(); ok {
			if _, seen := seenArrays[arr]; seen {
				continue
			}
			seenArrays[arr] = struct{}{}
			items := arr.Items()
			for i := len(items) - 1; i >= 0; i-- {
				if isContainer(items[i]) {
					stack = append(stack, items[i])
				}
			}
			continue
		}

		obj, ok := current.Object()
		if !ok {
			continue
		}
		if _, seen := seenObjects[obj]; seen {
			continue
		}
		seenObjects[obj] = struct{}{}

		members := obj.Members()
		for _, member := range members {
			visit(member.Key, ClassifyKey(member.Key), member.Value)
		}
		for i := len(members) - 1; i >= 0; i-- {
			if isContainer(members[i].Value) {
				stack = append(stack, members[i].Value)
			}
		}
	}
}

func isContainer(v jsonvalue.Value) bool {
	kind := v.Kind()
	return kind == jsonvalue.KindObject || kind == jsonvalue.KindArray
}

// CollectNumericForKeys returns every sanitized ranked score stored under a key of the
// given classes, at any depth. Generic keys never contribute.
func CollectNumericForKeys(root jsonvalue.Value, keys KeySet) []int {
	var values []int
	walk(root, func(_ string, info KeyInfo, value jsonvalue.Value) {
		if !info.allowsNumeric(keys) {
			return
		}
		n, ok := ParseNumericScoreStrict(value)
		if !ok {
			return
		}
		if score, ok := SanitizeRankedScore(n); ok {
			values = append(values, score)
		}
	})
	return values
}

// CollectTierFloorsForKeys returns the floor of every recognizable tier label stored
// under a key of the given classes. Only string values are read as labels.
func CollectTierFloorsForKeys(root jsonvalue.Value, keys KeySet) []int {
	var floors []int
	walk(root, func(_ string, info KeyInfo, value jsonvalue.Value) {
		if !info.allowsLabel(keys) {
			return
		}
		label, ok := value.Str()
		if !ok {
			return
		}
		if floor := RankTierFloorFromLabel(label); floor > 0 {
			floors = append(floors, floor)
		}
	})
	return floors
}

// CollectLabelsForKeys returns recognizable tier labels in traversal order.
func CollectLabelsForKeys(root jsonvalue.Value, keys KeySet) []string {
	var labels []string
	walk(root, func(_ string, info KeyInfo, value jsonvalue.Value) {
		if !info.allowsLabel(keys) {
			return
		}
		label, ok := value.Str()
		if !ok {
			return
		}
		if RankTierFloorFromLabel(label) > 0 {
			labels = append(labels, label)
		}
	})
	return labels
}

func maxOf(values []int) int {
	best := 0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}
