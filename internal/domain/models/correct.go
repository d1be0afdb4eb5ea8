package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CorrectKind — вариант правильного ответа.
type CorrectKind int

const (
	CorrectNone CorrectKind = iota
	CorrectKey
	CorrectKeys
	CorrectValue
	CorrectRange
)

// CorrectAnswer — правильный ответ из результата проверки:
// ключ, список ключей, число или закрытый интервал [Low, High].
type CorrectAnswer struct {
	Kind  CorrectKind
	Key   string
	Keys  []string
	Value float64
	Low   float64
	High  float64
}

// Includes проверяет, входит ли ключ варианта в правильный ответ.
func (c CorrectAnswer) Includes(key string) bool {
	switch c.Kind {
	case CorrectKey:
		return strings.EqualFold(c.Key, key)
	case CorrectKeys:
		for _, k := range c.Keys {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}

	return false
}

// String форматирует ответ так же, как экран разбора, интервал как "2 to 5".
func (c CorrectAnswer) String() string {
	switch c.Kind {
	case CorrectKey:
		return c.Key
	case CorrectKeys:
		return strings.Join(c.Keys, ", ")
	case CorrectValue:
		return formatNumber(c.Value)
	case CorrectRange:
		return formatNumber(c.Low) + " to " + formatNumber(c.High)
	}

	return ""
}

// MarshalJSON кодирует ответ в формат бэкенда.
func (c CorrectAnswer) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CorrectKey:
		return json.Marshal(c.Key)
	case CorrectKeys:
		return json.Marshal(c.Keys)
	case CorrectValue:
		return json.Marshal(c.Value)
	case CorrectRange:
		return json.Marshal([2]float64{c.Low, c.High})
	}

	return []byte("null"), nil
}

// UnmarshalJSON разбирает правильный ответ. Массив из двух чисел задаёт интервал.
func (c *CorrectAnswer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = CorrectAnswer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*c = CorrectAnswer{Kind: CorrectKey, Key: s}

		return nil
	case '[':
		var bounds []float64
		if err := json.Unmarshal(data, &bounds); err == nil {
			if len(bounds) != 2 {
				return fmt.Errorf("numeric correct answer must be [low, high], got %d values", len(bounds))
			}

			*c = CorrectAnswer{Kind: CorrectRange, Low: bounds[0], High: bounds[1]}

			return nil
		}

		var keys []string
		if err := json.Unmarshal(data, &keys); err != nil {
			return fmt.Errorf("unsupported correct answer %s", string(data))
		}

		*c = CorrectAnswer{Kind: CorrectKeys, Keys: keys}

		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("unsupported correct answer %s", string(data))
	}

	*c = CorrectAnswer{Kind: CorrectValue, Value: v}

	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
