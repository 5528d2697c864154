package dbmodels

// FileStorage файл мероприятия в объектном хранилище
type FileStorage struct {
	BaseModel
	EventID     uint     `gorm:"index"`
	Name        string   `gorm:"type:varchar(255)"`
	ObjectName  string   `gorm:"type:varchar(255);uniqueIndex"`
	Type        FileType `gorm:"type:varchar(50)"`
	ContentType string   `gorm:"type:varchar(100)"`
	Size        int64
}

type FileType string

const (
	MatrixArchiveXlsx FileType = "matrix_archive_xlsx"
	MatrixArchivePdf  FileType = "matrix_archive_pdf"
)

type UploadFileInfo struct {
	EventID     uint
	FileName    string
	FileType    FileType
	ContentType string
}
