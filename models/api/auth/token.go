package authapimodels

import (
	"raci-approval-backend/models"
	"strings"

	"github.com/pkg/errors"
)

type JWTResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type JWTRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r JWTRefreshRequest) Validate() error {
	if len(strings.TrimSpace(r.RefreshToken)) == 0 {
		return errors.New("refresh token не должен быть пустым")
	}
	return nil
}

// MeView текущий пользователь и его права по модулям
type MeView struct {
	ID             uint                                  `json:"id"`
	Name           string                                `json:"name"`
	Email          string                                `json:"email"`
	DepartmentID   uint                                  `json:"department_id"`
	DepartmentName string                                `json:"department_name,omitempty"`
	Role           models.UserRole                       `json:"role"`
	RoleName       string                                `json:"role_name"`
	IsHod          bool                                  `json:"is_hod"`
	Permissions    map[models.Module][]models.Permission `json:"permissions"`
}
