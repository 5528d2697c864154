package authhandler

import (
	"raci-approval-backend/db"
	employeestore "raci-approval-backend/lib/dicts/employee/store"
	"raci-approval-backend/lib/rbac"
	authutils "raci-approval-backend/lib/utils/auth-utils"
	authapimodels "raci-approval-backend/models/api/auth"
	dbmodels "raci-approval-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrUnauthorized = errors.New("неверный email или пароль")

type Provider interface {
	Login(email, password string) (response authapimodels.JWTResponse, err error)
	RefreshToken(refreshToken string) (response authapimodels.JWTResponse, err error)
	Me(userID uint) (authapimodels.MeView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: employeestore.NewInstance(db.DB),
	}
}

type impl struct {
	store employeestore.Provider
}

func (i impl) Login(email, password string) (response authapimodels.JWTResponse, err error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка поиска пользователя по почте")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !authutils.CheckPassword(user.Password, password) {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, ErrUnauthorized
	}
	response, err = i.issue(*user)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	err = i.store.Update(user.ID, map[string]interface{}{"last_login": time.Now()})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления даты последнего входа")
	}
	return response, nil
}

func (i impl) RefreshToken(refreshToken string) (response authapimodels.JWTResponse, err error) {
	userID, err := authutils.ParseRefreshToken(refreshToken)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(ErrUnauthorized, err.Error())
	}
	user, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if user == nil {
		return authapimodels.JWTResponse{}, ErrUnauthorized
	}
	return i.issue(*user)
}

func (i impl) Me(userID uint) (authapimodels.MeView, error) {
	user, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.MeView{}, err
	}
	if user == nil {
		return authapimodels.MeView{}, ErrUnauthorized
	}
	result := authapimodels.MeView{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		DepartmentID: user.DepartmentID,
		Role:         user.Role,
		RoleName:     user.Role.ToHuman(),
		IsHod:        user.IsHod,
	}
	if user.Department != nil {
		result.DepartmentName = user.Department.Name
	}
	if rbac.Instance != nil {
		result.Permissions = rbac.Instance.GetPermissions(user.Role)
	}
	return result, nil
}

func (i impl) issue(user dbmodels.Employee) (authapimodels.JWTResponse, error) {
	token, err := authutils.GetToken(user)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	refresh, err := authutils.GetRefreshToken(user.ID)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
