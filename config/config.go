package config

import (
	"os"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		BodyLimit  int    `default:"4194304" env:"APP_BODY_LIMIT"`
		// PublicURL адрес фронтенда для ссылок в письмах
		PublicURL string `default:"http://localhost:3000" env:"APP_PUBLIC_URL"`
		// FontDir шрифты с кириллицей для pdf
		FontDir string `default:"static/font/" env:"APP_FONT_DIR"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"raci" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret             string `default:"secret" env:"JWT_SECRET"`
		JWTExpireInSec        int64  `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
		JWTRefreshExpireInSec int64  `default:"2592000" env:"JWT_REFRESH_EXPIRE_IN_SEC"`
	}
	// Admin первый пользователь, создается при пустом справочнике сотрудников
	Admin struct {
		DepartmentName string `default:"Администрация" env:"ADMIN_DEPARTMENT"`
		Name           string `default:"Администратор" env:"ADMIN_NAME"`
		Email          string `default:"" env:"ADMIN_EMAIL"`
		Password       string `default:"" env:"ADMIN_PASSWORD"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"raci@localhost" env:"SMTP_FROM"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"raci-archive" env:"S3_BUCKET_NAME"`
		// ArchiveApproved сохранять согласованные матрицы в хранилище
		ArchiveApproved *bool `default:"true" env:"S3_ARCHIVE_APPROVED"`
	}
	Approval struct {
		SubmitLockWaitSec      int   `default:"5" env:"APPROVAL_SUBMIT_LOCK_WAIT_SEC"`
		ReminderEnabled        *bool `default:"true" env:"APPROVAL_REMINDER_ENABLED"`
		ReminderIntervalMin    int   `default:"60" env:"APPROVAL_REMINDER_INTERVAL_MIN"`
		ReminderStaleAfterHour int   `default:"24" env:"APPROVAL_REMINDER_STALE_AFTER_HOUR"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

// loadEnvFile переменные из .env не перекрывают уже заданные в окружении
func loadEnvFile() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		log.WithError(errors.Wrap(err, "ошибка чтения .env")).Warn("Файл .env пропущен")
	}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	loadEnvFile()
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
