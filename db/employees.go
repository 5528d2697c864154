package db

import (
	"encoding/csv"
	"os"
	departmentstore "raci-approval-backend/lib/dicts/department/store"
	employeestore "raci-approval-backend/lib/dicts/employee/store"
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// EmployeeLine строка файла предзаполнения: подразделение;ФИО;должность;email;руководитель
type EmployeeLine struct {
	Department  string
	Name        string
	Designation string
	Email       string
	IsHod       bool
}

func fillEmployees(filePath string) {
	if _, err := os.Stat(filePath); err != nil {
		return
	}
	log.Info("предзаполнение сотрудников")
	departmentStore := departmentstore.NewInstance(DB)
	list, err := departmentStore.List()
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения сотрудников")
		return
	}
	// подразделение администратора создается до загрузки файла
	if len(list) > 1 {
		log.Info("подразделения уже заполнены")
		return
	}

	lines, err := readCsvFile(filePath, ';')
	if err != nil {
		log.WithError(err).Error("ошибка загрузки файла с сотрудниками")
		return
	}
	items, err := ParseEmployeeLines(lines)
	if err != nil {
		log.WithError(err).Error("ошибка загрузки файла с сотрудниками")
		return
	}
	employeeStore := employeestore.NewInstance(DB)
	departments := map[string]uint{}
	for _, item := range items {
		departmentID, ok := departments[item.Department]
		if !ok {
			departmentID, err = departmentByName(departmentStore, item.Department)
			if err != nil {
				log.
					WithError(err).
					WithField("department", item.Department).
					Error("ошибка добавления подразделения")
				return
			}
			departments[item.Department] = departmentID
		}
		role := models.EmployeeRole
		if item.IsHod {
			role = models.HodRole
		}
		_, err = employeeStore.Create(dbmodels.Employee{
			BaseDepartmentModel: dbmodels.BaseDepartmentModel{
				DepartmentID: departmentID,
			},
			Name:        item.Name,
			Designation: item.Designation,
			Email:       item.Email,
			IsHod:       item.IsHod,
			Role:        role,
		})
		if err != nil {
			log.
				WithError(err).
				WithField("name", item.Name).
				Error("ошибка добавления сотрудника")
			return
		}
	}
	log.Infof("сотрудники добавлены: %v", len(items))
}

// ParseEmployeeLines первая строка с заголовками пропускается
func ParseEmployeeLines(lines [][]string) ([]EmployeeLine, error) {
	result := make([]EmployeeLine, 0, len(lines))
	for k, line := range lines {
		if k == 0 {
			continue
		}
		if len(line) < 5 {
			return nil, errors.Errorf("строка %v: ожидается 5 колонок, получено %v", k+1, len(line))
		}
		isHod, err := strconv.ParseBool(strings.TrimSpace(line[4]))
		if err != nil {
			return nil, errors.Wrapf(err, "строка %v: некорректный признак руководителя", k+1)
		}
		item := EmployeeLine{
			Department:  strings.TrimSpace(line[0]),
			Name:        strings.TrimSpace(line[1]),
			Designation: strings.TrimSpace(line[2]),
			Email:       strings.TrimSpace(line[3]),
			IsHod:       isHod,
		}
		if item.Department == "" || item.Name == "" {
			return nil, errors.Errorf("строка %v: не указано подразделение или ФИО", k+1)
		}
		result = append(result, item)
	}
	return result, nil
}

func readCsvFile(filePath string, comma rune) ([][]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка открытия файла")
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.Comma = comma
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обработки файла")
	}

	return records, nil
}
