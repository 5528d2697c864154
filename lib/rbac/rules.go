package rbac

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"regexp"
	"slices"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	AdminRoleSet    = []models.UserRole{models.AdminRole}
	AdminHodRoleSet = []models.UserRole{models.AdminRole, models.HodRole}
	AllRoles        = []models.UserRole{models.AdminRole, models.HodRole, models.EmployeeRole}
)

// EventAccess проверка прав на изменение мероприятия
type EventAccess interface {
	CanManage(eventID, userID, departmentID uint, role models.UserRole) (bool, error)
}

var eventIDRegex = regexp.MustCompile(`^/api/v1/event/(\d+)(/|$)`)

func (i *impl) initRules() {
	i.addEventRbac()
	i.addMatrixRbac()
	i.addApprovalRbac()
	i.addDictRbac()
}

func (i *impl) addEventRbac() {
	//VIEW
	i.RegisterRule(models.EventModule, models.ViewPermission, AllRoles, "/api/v1/event/list [post]", nil)
	i.RegisterRule(models.EventModule, models.ViewPermission, AllRoles, "/api/v1/event/{id} [get]", nil)
	i.RegisterRule(models.EventModule, models.ViewPermission, AllRoles, "/api/v1/event/{id}/files [get]", nil)
	i.RegisterRule(models.EventModule, models.ViewPermission, AllRoles, "/api/v1/event/{id}/files/{fileId} [get]", nil)
	// CREATE
	i.RegisterRule(models.EventModule, models.CreatePermission, AllRoles, "/api/v1/event [post]", nil)
	// EDIT
	i.RegisterRule(models.EventModule, models.EditPermission, AllRoles, "/api/v1/event/{id} [put]", i.EventManagerFunc(AllRoles))
	i.RegisterRule(models.EventModule, models.EditPermission, AllRoles, "/api/v1/event/{id} [delete]", i.EventManagerFunc(AllRoles))
	i.RegisterRule(models.EventModule, models.EditPermission, AllRoles, "/api/v1/event/{id}/task [post]", i.EventManagerFunc(AllRoles))
	i.RegisterRule(models.EventModule, models.EditPermission, AllRoles, "/api/v1/event/{id}/task/{taskId} [put]", i.EventManagerFunc(AllRoles))
	i.RegisterRule(models.EventModule, models.EditPermission, AllRoles, "/api/v1/event/{id}/task/{taskId} [delete]", i.EventManagerFunc(AllRoles))
	i.RegisterRule(models.EventModule, models.EditPermission, AllRoles, "/api/v1/event/{id}/employees [put]", i.EventManagerFunc(AllRoles))
}

func (i *impl) addMatrixRbac() {
	// VIEW
	i.RegisterRule(models.MatrixModule, models.ViewPermission, AllRoles, "/api/v1/event/{id}/matrix [get]", nil)
	i.RegisterRule(models.MatrixModule, models.ViewPermission, AllRoles, "/api/v1/event/{id}/approval_matrix [get]", nil)
	i.RegisterRule(models.MatrixModule, models.ViewPermission, AllRoles, "/api/v1/event/{id}/approval_history [get]", nil)
	// EXPORT
	i.RegisterRule(models.MatrixModule, models.ExportPermission, AllRoles, "/api/v1/event/{id}/export [get]", nil)
	// EDIT
	i.RegisterRule(models.MatrixModule, models.EditPermission, AllRoles, "/api/v1/event/{id}/matrix [put]", i.EventManagerFunc(AllRoles))
	i.RegisterRule(models.MatrixModule, models.EditPermission, AllRoles, "/api/v1/event/{id}/matrix/validate [post]", i.EventManagerFunc(AllRoles))
	// SUBMIT
	i.RegisterRule(models.MatrixModule, models.SubmitPermission, AllRoles, "/api/v1/event/{id}/submit [post]", i.EventManagerFunc(AllRoles))
}

func (i *impl) addApprovalRbac() {
	// VIEW
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AdminHodRoleSet, "/api/v1/approval/inbox [get]", nil)
	// DECIDE
	i.RegisterRule(models.ApprovalModule, models.DecidePermission, AdminHodRoleSet, "/api/v1/approval/{id}/approve [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.DecidePermission, AdminHodRoleSet, "/api/v1/approval/{id}/reject [post]", nil)
}

func (i *impl) addDictRbac() {
	// VIEW
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/department [get]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/department/find [post]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/department/{id} [get]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/department/{id}/employees [get]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/department/{id}/approvers [get]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/employee/{id} [get]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/role/list [get]", nil)
	i.RegisterRule(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/raci_role/list [get]", nil)
	// MANAGE
	i.RegisterRule(models.DictModule, models.ManagePermission, AdminRoleSet, "/api/v1/dict/department [post]", nil)
	i.RegisterRule(models.DictModule, models.ManagePermission, AdminRoleSet, "/api/v1/dict/department/{id} [put]", nil)
	i.RegisterRule(models.DictModule, models.ManagePermission, AdminRoleSet, "/api/v1/dict/department/{id} [delete]", nil)
	i.RegisterRule(models.DictModule, models.ManagePermission, AdminRoleSet, "/api/v1/dict/employee [post]", nil)
}

// EventManagerFunc роль из списка и право на изменение мероприятия из пути запроса
func (i *impl) EventManagerFunc(accessRoles []models.UserRole) models.RbacFunc {
	return func(departmentID, userID uint, role models.UserRole, uri string) bool {
		if !slices.Contains(accessRoles, role) {
			return false
		}
		if i.events == nil {
			return role.IsAdmin()
		}
		match := eventIDRegex.FindStringSubmatch(normalizePath(uri))
		if match == nil {
			return false
		}
		eventID, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			return false
		}
		allowed, err := i.events.CanManage(uint(eventID), userID, departmentID, role)
		if err != nil {
			if errors.Is(err, raci.ErrNotFound) {
				// отдаем 404 из обработчика
				return true
			}
			log.
				WithError(err).
				WithField("event_id", eventID).
				Error("ошибка проверки прав на мероприятие")
			return false
		}
		return allowed
	}
}
