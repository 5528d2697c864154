package initializers

import (
	"context"
	"raci-approval-backend/config"
	"raci-approval-backend/fiberlog"
	approvalnotify "raci-approval-backend/lib/approval-notify"
	approvalrecordhandler "raci-approval-backend/lib/approval-record"
	reminderworker "raci-approval-backend/lib/approval-record/reminder-worker"
	authhandler "raci-approval-backend/lib/auth"
	departmentprovider "raci-approval-backend/lib/dicts/department"
	employeeprovider "raci-approval-backend/lib/dicts/employee"
	eventhandler "raci-approval-backend/lib/event"
	xlsexport "raci-approval-backend/lib/export/xls"
	"raci-approval-backend/lib/rbac"
	connectionhub "raci-approval-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	connectionhub.Init()
	departmentprovider.NewHandler()
	employeeprovider.NewHandler()
	approvalnotify.NewHandler()
	xlsexport.NewHandler()
	eventhandler.NewHandler()
	approvalrecordhandler.NewHandler()
	rbac.NewHandler(eventhandler.Instance)
	authhandler.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Напоминания согласующим о зависших назначениях
	if *config.Conf.Approval.ReminderEnabled {
		reminderworker.StartWorker(ctx)
	}
}
