package limitcodec

import (
	"fmt"
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var keyRegexp = regexp.MustCompile(`^task-(\d+)-([A-Za-z]+)-(\d+)$`)

// Key составной ключ лимита: task-{taskId}-{role}-{employeeId}
func Key(key raci.LimitKey) string {
	return fmt.Sprintf("task-%d-%s-%d", key.TaskID, strings.ToLower(string(key.Role)), key.EmployeeID)
}

func ParseKey(value string) (raci.LimitKey, bool) {
	parts := keyRegexp.FindStringSubmatch(value)
	if parts == nil {
		return raci.LimitKey{}, false
	}
	taskID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || taskID == 0 {
		return raci.LimitKey{}, false
	}
	role, ok := models.ParseRaciRole(parts[2])
	if !ok {
		return raci.LimitKey{}, false
	}
	employeeID, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil || employeeID == 0 {
		return raci.LimitKey{}, false
	}
	return raci.LimitKey{
		TaskID:     uint(taskID),
		Role:       role,
		EmployeeID: uint(employeeID),
	}, true
}

func Encode(limits map[raci.LimitKey]raci.Limit) map[string]raci.Limit {
	result := make(map[string]raci.Limit, len(limits))
	for key, limit := range limits {
		result[Key(key)] = limit
	}
	return result
}

// Decode некорректные ключи пропускаются с предупреждением
func Decode(flat map[string]raci.Limit) map[raci.LimitKey]raci.Limit {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make(map[raci.LimitKey]raci.Limit, len(flat))
	for _, key := range keys {
		limitKey, ok := ParseKey(key)
		if !ok {
			log.WithField("limit_key", key).Warn("Некорректный ключ финансового лимита, значение пропущено")
			continue
		}
		result[limitKey] = flat[key]
	}
	return result
}

// Attach оставляет только лимиты, у которых есть назначение в матрице
func Attach(m raci.Matrix, limits map[raci.LimitKey]raci.Limit) map[raci.LimitKey]raci.Limit {
	result := make(map[raci.LimitKey]raci.Limit, len(limits))
	for _, key := range raci.SortedLimitKeys(limits) {
		if !m.HasAssignment(key) {
			log.
				WithField("event_id", m.EventID).
				WithField("limit_key", Key(key)).
				Warn("Финансовый лимит без назначения, значение отброшено")
			continue
		}
		result[key] = limits[key]
	}
	return result
}
