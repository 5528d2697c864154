package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"raci-approval-backend/config"
	"raci-approval-backend/db"
	filesdbstorage "raci-approval-backend/lib/file-storage/storage"
	dbmodels "raci-approval-backend/models/db"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	UploadFile(ctx context.Context, info dbmodels.UploadFileInfo, body []byte) (rec dbmodels.FileStorage, err error)
	GetFile(ctx context.Context, eventID, fileID uint) (rec *dbmodels.FileStorage, body []byte, err error)
	ListFiles(eventID uint) ([]dbmodels.FileStorage, error)
	MakeBucket(ctx context.Context) error
}

var Instance Provider

type impl struct {
	s3client   *minio.Client
	bucketName string
	store      filesdbstorage.Provider
}

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: config.Conf.S3.BucketName,
		store:      filesdbstorage.NewInstance(db.DB),
	}
}

func (i impl) UploadFile(ctx context.Context, info dbmodels.UploadFileInfo, body []byte) (rec dbmodels.FileStorage, err error) {
	objectName := i.getObjectName(info.EventID, info.FileName)
	_, err = i.s3client.PutObject(ctx, i.bucketName, objectName, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: info.ContentType})
	if err != nil {
		return dbmodels.FileStorage{}, errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	rec = dbmodels.FileStorage{
		EventID:     info.EventID,
		Name:        info.FileName,
		ObjectName:  objectName,
		Type:        info.FileType,
		ContentType: info.ContentType,
		Size:        int64(len(body)),
	}
	rec.ID, err = i.store.SaveFile(rec)
	if err != nil {
		return dbmodels.FileStorage{}, errors.Wrap(err, "ошибка сохранения сведений о файле")
	}
	log.
		WithField("event_id", info.EventID).
		WithField("object_name", objectName).
		Info("файл сохранен в хранилище")
	return rec, nil
}

func (i impl) GetFile(ctx context.Context, eventID, fileID uint) (rec *dbmodels.FileStorage, body []byte, err error) {
	rec, err = i.store.GetByID(eventID, fileID)
	if err != nil || rec == nil {
		return nil, nil, err
	}
	object, err := i.s3client.GetObject(ctx, i.bucketName, rec.ObjectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	defer object.Close()
	body, err = io.ReadAll(object)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return rec, body, nil
}

func (i impl) ListFiles(eventID uint) ([]dbmodels.FileStorage, error) {
	return i.store.ListByEvent(eventID)
}

func (i impl) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
}

func (i impl) getObjectName(eventID uint, fileName string) string {
	return fmt.Sprintf("event-%d/%s-%s", eventID, uuid.NewString(), fileName)
}
