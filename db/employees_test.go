package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmployeeLines(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		items, err := ParseEmployeeLines([][]string{
			{"department", "name", "designation", "email", "is_hod"},
			{"Финансы", " Henry ", "Руководитель", "henry@example.com", "true"},
			{"Финансы", "Alice", "Экономист", "", "false"},
		})
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, "Henry", items[0].Name)
		require.True(t, items[0].IsHod)
		require.Equal(t, "", items[1].Email)
	})
	t.Run("short line", func(t *testing.T) {
		_, err := ParseEmployeeLines([][]string{
			{"header"},
			{"Финансы", "Henry"},
		})
		require.Error(t, err)
	})
	t.Run("bad hod flag", func(t *testing.T) {
		_, err := ParseEmployeeLines([][]string{
			{"header"},
			{"Финансы", "Henry", "", "", "может быть"},
		})
		require.Error(t, err)
	})
}
