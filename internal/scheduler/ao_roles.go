package scheduler

import "sort"

// aoDeskOperatorTable is the fixed seat-count -> (desk, operator) table of
// spec.md §4.4 for n in [0,7]; n>=8 falls back to the ceil/floor formula.
var aoDeskOperatorTable = map[int][2]int{
	0: {0, 0},
	1: {0, 1},
	2: {1, 1},
	3: {1, 2},
	4: {2, 2},
	5: {3, 2},
	6: {3, 3},
	7: {4, 3},
}

// aoDeskOperatorTarget returns the (desk, operator) seat counts for an
// A-shift with n seats.
func aoDeskOperatorTarget(n int) (desk, operator int) {
	if target, ok := aoDeskOperatorTable[n]; ok {
		return target[0], target[1]
	}
	desk = (n + 1) / 2
	operator = n / 2
	return desk, operator
}

// assignAOSeatRoles resolves the DESK/OPERATOR role for every seat of an
// A-shift slot, honoring any preassigned (non-null) roles first and then
// distributing the remaining null-role seats to match the target counts,
// ordered by seat id per spec.md §4.4.
func assignAOSeatRoles(slot AOSlot) map[string]SeatRole {
	result := make(map[string]SeatRole, len(slot.Seats))
	if slot.Duty != DutyA {
		for _, seat := range slot.Seats {
			result[seat.ID] = RoleNone
		}
		return result
	}

	desk, operator := aoDeskOperatorTarget(len(slot.Seats))

	var unassigned []AOSeat
	for _, seat := range slot.Seats {
		switch seat.Role {
		case RoleDesk:
			result[seat.ID] = RoleDesk
			desk--
		case RoleOperator:
			result[seat.ID] = RoleOperator
			operator--
		default:
			unassigned = append(unassigned, seat)
		}
	}

	sort.Slice(unassigned, func(i, j int) bool { return unassigned[i].ID < unassigned[j].ID })

	for _, seat := range unassigned {
		switch {
		case desk > 0:
			result[seat.ID] = RoleDesk
			desk--
		case operator > 0:
			result[seat.ID] = RoleOperator
			operator--
		default:
			result[seat.ID] = RoleOperator
		}
	}
	return result
}
