package lms

import (
	"github.com/s0up4200/staffeli/entity"
)

// GroupList is the groups of one category with their members.
type GroupList struct {
	Listing
}

// UIDMap maps each group name to the ids of its members.
func (g *GroupList) UIDMap() map[string][]int64 {
	out := make(map[string][]int64, len(g.items))
	for _, group := range g.items {
		members, err := entity.FromValue(group["members"])
		if err != nil {
			out[group.Name()] = nil
			continue
		}
		out[group.Name()] = members.IDs()
	}
	return out
}

// Names returns the group names in listing order.
func (g *GroupList) Names() []string {
	return g.items.Names()
}
