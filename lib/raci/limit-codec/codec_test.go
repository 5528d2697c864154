package limitcodec

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	t.Run(`key format`, func(t *testing.T) {
		key := raci.LimitKey{TaskID: 7, Role: models.RoleResponsible, EmployeeID: 42}
		require.Equal(t, "task-7-responsible-42", Key(key))
	})

	t.Run(`parse key`, func(t *testing.T) {
		key, ok := ParseKey("task-7-responsible-42")
		require.True(t, ok)
		require.Equal(t, raci.LimitKey{TaskID: 7, Role: models.RoleResponsible, EmployeeID: 42}, key)

		key, ok = ParseKey("task-3-Accountable-5")
		require.True(t, ok)
		require.Equal(t, models.RoleAccountable, key.Role)

		for _, bad := range []string{
			"",
			"task-7-responsible",
			"task-x-responsible-42",
			"task-7-owner-42",
			"task-7-responsible-42-1",
			"tsk-7-responsible-42",
			"task--7-responsible-42",
			"task-0-responsible-42",
		} {
			_, ok = ParseKey(bad)
			require.False(t, ok, bad)
		}
	})

	t.Run(`encode decode round trip`, func(t *testing.T) {
		limits := map[raci.LimitKey]raci.Limit{
			{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10}: {Min: "100", Max: "5000"},
			{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 11}: {Max: "20000.50"},
			{TaskID: 2, Role: models.RoleResponsible, EmployeeID: 10}: {Min: "0"},
		}
		flat := Encode(limits)
		require.Len(t, flat, 3)
		require.Equal(t, raci.Limit{Max: "20000.50"}, flat["task-1-accountable-11"])
		require.Equal(t, limits, Decode(flat))
	})

	t.Run(`decode skips malformed keys`, func(t *testing.T) {
		flat := map[string]raci.Limit{
			"task-1-responsible-10": {Max: "100"},
			"garbage":               {Max: "1"},
			"task-1-watcher-10":     {Max: "2"},
		}
		decoded := Decode(flat)
		require.Len(t, decoded, 1)
		require.Equal(t, raci.Limit{Max: "100"}, decoded[raci.LimitKey{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10}])
	})

	t.Run(`attach drops orphans`, func(t *testing.T) {
		m := raci.NewMatrix(1, []raci.Task{{ID: 1, EventID: 1, Name: "Закупка"}})
		m.Assign(raci.Assignment{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10})

		limits := map[raci.LimitKey]raci.Limit{
			{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10}: {Max: "100"},
			{TaskID: 7, Role: models.RoleResponsible, EmployeeID: 42}: {Max: "900"},
			{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 10}: {Max: "5"},
		}
		attached := Attach(m, limits)
		require.Len(t, attached, 1)
		_, ok := attached[raci.LimitKey{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10}]
		require.True(t, ok)
	})
}
