package application

import "strings"

// FilterRooms keeps the rooms matching every filter set in params, preserving
// order. The name filter is a case-sensitive substring match.
func FilterRooms(rooms []RoomSummary, params SearchRoomsParams) []RoomSummary {
	filtered := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		if params.RequireProjector && !room.ProjectorAvailability {
			continue
		}
		if params.MinCapacity > 0 && room.Capacity < params.MinCapacity {
			continue
		}
		if params.NamePattern != "" && !strings.Contains(room.Name, params.NamePattern) {
			continue
		}
		filtered = append(filtered, room)
	}
	return filtered
}
