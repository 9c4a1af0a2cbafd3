package mysql

import (
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// 教学要点:
// 1. gorm.Config开启TranslateError后，MySQL 1062错误会翻译为gorm.ErrDuplicatedKey
// 2. 兼容未翻译的场景，同时检查驱动原始错误消息中的"Duplicate entry"
// 3. 订单号冲突、统计重复写入都依赖这个判断做幂等/重试
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// marshalJSON 将map序列化为json列的字符串，nil/空map存空串
func marshalJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// unmarshalAttributes 解析SKU属性json列
func unmarshalAttributes(s string) map[string]string {
	if s == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

// unmarshalExtra 解析日志extra json列
func unmarshalExtra(s string) map[string]interface{} {
	if s == "" {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
