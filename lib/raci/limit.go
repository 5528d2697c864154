package raci

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// границы соответствуют колонкам numeric(18,2)
const LimitScale = 2

var LimitUpperBound = decimal.New(1, 16)

// LimitValue денежная граница в исходном виде.
// Сырой текст сохраняется, чтобы нечисловое значение попало в список нарушений,
// а не сорвало разбор всего запроса. Пустая строка - граница не задана.
type LimitValue string

func NewLimitValue(value decimal.Decimal) LimitValue {
	return LimitValue(value.String())
}

func LimitValueFromPtr(value *decimal.Decimal) LimitValue {
	if value == nil {
		return ""
	}
	return NewLimitValue(*value)
}

func (v LimitValue) IsSet() bool {
	return strings.TrimSpace(string(v)) != ""
}

func (v LimitValue) Decimal() (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "значение %q не является числом", string(v))
	}
	return value, nil
}

// DecimalPtr nil для незаданной или некорректной границы
func (v LimitValue) DecimalPtr() *decimal.Decimal {
	if !v.IsSet() {
		return nil
	}
	value, err := v.Decimal()
	if err != nil {
		return nil
	}
	return &value
}

func (v *LimitValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = LimitValue(str)
		return nil
	}
	*v = LimitValue(raw)
	return nil
}

func (v LimitValue) MarshalJSON() ([]byte, error) {
	if !v.IsSet() {
		return []byte("null"), nil
	}
	value, err := v.Decimal()
	if err != nil {
		return json.Marshal(string(v))
	}
	return []byte(value.String()), nil
}

// Limit финансовые полномочия назначения: {min, max}
type Limit struct {
	Min LimitValue `json:"min,omitempty"`
	Max LimitValue `json:"max,omitempty"`
}

func (l Limit) IsEmpty() bool {
	return !l.Min.IsSet() && !l.Max.IsSet()
}
