// Package conversation derives the stable identifiers shared by message
// routing and classification correlation. A direct conversation between two
// users maps to the same key no matter which of them is the sender, so the
// delivery room and the classifier's conversation id are always the same
// string.
package conversation

import "strconv"

// MonitorRoom is the singleton room monitoring sessions join to receive
// alert broadcasts.
const MonitorRoom = "parent-dashboard"

// Key returns the order-independent conversation key for a pair of users:
// the two ids rendered as strings, sorted lexicographically, and joined
// with "-".
func Key(a, b int) string {
	left, right := strconv.Itoa(a), strconv.Itoa(b)
	if left > right {
		left, right = right, left
	}
	return left + "-" + right
}

// DirectRoom returns the room id for a direct conversation. Identical to
// Key by construction.
func DirectRoom(a, b int) string {
	return Key(a, b)
}

// GroupRoom returns the room id for a group.
func GroupRoom(groupID int) string {
	return "group-" + strconv.Itoa(groupID)
}
