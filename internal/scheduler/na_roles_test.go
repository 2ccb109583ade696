package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNADeskOperatorTargetTable(t *testing.T) {
	cases := []struct {
		n               int
		desk, operator int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 1, 1},
		{3, 2, 1},
	}
	for _, c := range cases {
		desk, operator := naDeskOperatorTarget(c.n)
		assert.Equal(t, c.desk, desk, "n=%d desk", c.n)
		assert.Equal(t, c.operator, operator, "n=%d operator", c.n)
	}
}

func TestNADeskOperatorTargetFallbackFormula(t *testing.T) {
	desk, operator := naDeskOperatorTarget(4)
	assert.Equal(t, 3, desk)
	assert.Equal(t, 1, operator)

	desk, operator = naDeskOperatorTarget(5)
	assert.Equal(t, 4, desk)
	assert.Equal(t, 1, operator)
}

func TestAssignNASeatRolesHonorsPreassigned(t *testing.T) {
	slot := NASlot{
		Seats: []NASeat{
			{ID: "seatA", Role: RoleDesk},
			{ID: "seatB"},
			{ID: "seatC"},
		},
	}
	roles := assignNASeatRoles(slot)
	// n=3 -> target (desk=2, operator=1); seatA preassigned desk consumes one desk slot
	assert.Equal(t, RoleDesk, roles["seatA"])
	assert.Equal(t, RoleDesk, roles["seatB"])
	assert.Equal(t, RoleOperator, roles["seatC"])
}

func TestAssignNASeatRolesOrdersBySeatID(t *testing.T) {
	slot := NASlot{
		Seats: []NASeat{
			{ID: "zeta"},
			{ID: "alpha"},
		},
	}
	roles := assignNASeatRoles(slot)
	// n=2 -> target (desk=1, operator=1); unassigned sorted alpha, zeta
	assert.Equal(t, RoleDesk, roles["alpha"])
	assert.Equal(t, RoleOperator, roles["zeta"])
}

func TestAssignNASeatRolesOverflowFallsBackToOperator(t *testing.T) {
	slot := NASlot{
		Seats: []NASeat{
			{ID: "s1", Role: RoleDesk},
			{ID: "s2"},
		},
	}
	roles := assignNASeatRoles(slot)
	// n=2 -> target desk=1; s1 preassigned desk consumes the whole budget, s2 overflows
	assert.Equal(t, RoleDesk, roles["s1"])
	assert.Equal(t, RoleOperator, roles["s2"])
}
