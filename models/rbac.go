package models

type RbacFunc func(departmentID, userID uint, role UserRole, path string) bool

type Module string

const (
	EventModule    Module = "EVENT"
	MatrixModule   Module = "RACI_MATRIX"
	ApprovalModule Module = "APPROVAL"
	DictModule     Module = "DICT"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	SubmitPermission Permission = "SUBMIT"
	DecidePermission Permission = "DECIDE"
	ExportPermission Permission = "EXPORT"
	ManagePermission Permission = "MANAGE"
)
