package authhandler

import (
	"raci-approval-backend/config"
	authutils "raci-approval-backend/lib/utils/auth-utils"
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEmployees struct {
	list    map[uint]dbmodels.Employee
	updated map[uint]map[string]interface{}
}

func (f *fakeEmployees) Create(rec dbmodels.Employee) (uint, error) {
	rec.ID = uint(len(f.list) + 1)
	f.list[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeEmployees) GetByID(id uint) (*dbmodels.Employee, error) {
	rec, ok := f.list[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeEmployees) GetByIDs(ids []uint) ([]dbmodels.Employee, error) {
	result := []dbmodels.Employee{}
	for _, id := range ids {
		if rec, ok := f.list[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeEmployees) FindByEmail(email string) (*dbmodels.Employee, error) {
	for _, rec := range f.list {
		if strings.EqualFold(rec.Email, email) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployees) Update(id uint, updMap map[string]interface{}) error {
	f.updated[id] = updMap
	return nil
}

func (f *fakeEmployees) ListByDepartment(departmentID uint) ([]dbmodels.Employee, error) {
	return nil, nil
}

func (f *fakeEmployees) ListHods(departmentID uint) ([]dbmodels.Employee, error) {
	return nil, nil
}

func (f *fakeEmployees) ListByEvent(eventID uint) ([]dbmodels.Employee, error) {
	return nil, nil
}

func (f *fakeEmployees) SetEventEmployees(eventID uint, employeeIDs []uint) error {
	return nil
}

func newTestHandler(t *testing.T) (impl, *fakeEmployees) {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "auth-secret"
	conf.Auth.JWTExpireInSec = 60
	conf.Auth.JWTRefreshExpireInSec = 120
	config.Conf = conf

	hash, err := authutils.HashPassword("secret-pass")
	require.NoError(t, err)
	henry := dbmodels.Employee{
		Name:     "Henry",
		Email:    "henry@example.com",
		Role:     models.HodRole,
		IsHod:    true,
		Password: hash,
		Department: &dbmodels.Department{
			Name: "Финансы",
		},
	}
	henry.ID = 7
	henry.DepartmentID = 3
	store := &fakeEmployees{
		list:    map[uint]dbmodels.Employee{7: henry},
		updated: map[uint]map[string]interface{}{},
	}
	return impl{store: store}, store
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		handler, store := newTestHandler(t)
		response, err := handler.Login(" HENRY@example.com ", "secret-pass")
		require.NoError(t, err)
		require.NotEmpty(t, response.Token)
		require.NotEmpty(t, response.RefreshToken)
		require.Contains(t, store.updated[7], "last_login")
	})
	t.Run("wrong password", func(t *testing.T) {
		handler, store := newTestHandler(t)
		_, err := handler.Login("henry@example.com", "other")
		require.ErrorIs(t, err, ErrUnauthorized)
		require.Empty(t, store.updated)
	})
	t.Run("unknown email", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		_, err := handler.Login("nobody@example.com", "secret-pass")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestRefreshToken(t *testing.T) {
	handler, store := newTestHandler(t)
	response, err := handler.Login("henry@example.com", "secret-pass")
	require.NoError(t, err)

	t.Run("refresh issues new pair", func(t *testing.T) {
		refreshed, err := handler.RefreshToken(response.RefreshToken)
		require.NoError(t, err)
		require.NotEmpty(t, refreshed.Token)
	})
	t.Run("access token is not accepted", func(t *testing.T) {
		_, err := handler.RefreshToken(response.Token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("removed user", func(t *testing.T) {
		delete(store.list, 7)
		_, err := handler.RefreshToken(response.RefreshToken)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestMe(t *testing.T) {
	handler, _ := newTestHandler(t)
	me, err := handler.Me(7)
	require.NoError(t, err)
	require.Equal(t, "Henry", me.Name)
	require.Equal(t, "Финансы", me.DepartmentName)
	require.Equal(t, models.HodRole, me.Role)
	require.True(t, me.IsHod)

	_, err = handler.Me(99)
	require.ErrorIs(t, err, ErrUnauthorized)
}
