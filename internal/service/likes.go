package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toggleLike flips membership of actor in a likes list. Returns the new list
// and whether the actor is now a member.
func toggleLike(likes []primitive.ObjectID, actor primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i, id := range likes {
		if id == actor {
			return append(likes[:i], likes[i+1:]...), false
		}
	}
	return append(likes, actor), true
}

// removeID splices the first occurrence of id out of the list, leaving the
// order of the remaining entries unchanged.
func removeID(list []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// containsID reports whether id is present in the list.
func containsID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
