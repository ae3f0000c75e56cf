package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckITWin(t *testing.T) {
	tests := []struct {
		name    string
		players []*Player
		want    bool
	}{
		{
			name: "all runners eliminated",
			players: []*Player{
				{ID: "it", Role: RoleIT},
				{ID: "r1", Role: RoleRunner, Eliminated: true},
				{ID: "r2", Role: RoleRunner, Eliminated: true},
			},
			want: true,
		},
		{
			name: "one runner alive",
			players: []*Player{
				{ID: "it", Role: RoleIT},
				{ID: "r1", Role: RoleRunner, Eliminated: true},
				{ID: "r2", Role: RoleRunner},
			},
			want: false,
		},
		{
			name: "no runners at all",
			players: []*Player{
				{ID: "it", Role: RoleIT},
			},
			want: false,
		},
		{
			name:    "empty roster",
			players: nil,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckITWin(tt.players))
		})
	}
}

func TestCheckRunnersWin(t *testing.T) {
	alive := []*Player{
		{ID: "it", Role: RoleIT},
		{ID: "r1", Role: RoleRunner},
	}
	allOut := []*Player{
		{ID: "it", Role: RoleIT},
		{ID: "r1", Role: RoleRunner, Eliminated: true},
	}

	assert.False(t, CheckRunnersWin(alive, false), "timer still running")
	assert.True(t, CheckRunnersWin(alive, true))
	assert.False(t, CheckRunnersWin(allOut, true))
}

func TestRoleJSONRoundTrip(t *testing.T) {
	p := NewPlayer("hunter")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, RoleNone, p.Role)

	p.SetRole(RoleIT)
	assert.Equal(t, "it", p.Role.String())

	var r Role
	assert.NoError(t, r.UnmarshalJSON([]byte(`"runner"`)))
	assert.Equal(t, RoleRunner, r)
}
