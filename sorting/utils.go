package sorting

import (
	"fmt"
	"regexp"
)

var fieldNameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_\.]+$`)

func toDirection(desc bool) string {
	if desc {
		return "DESC"
	} else {
		return "ASC"
	}
}

// nullRank 各数据库对 NULLS FIRST/LAST 支持不一，统一用 CASE 表达式排序
func nullRank(column string, atEnd bool) string {
	if atEnd {
		return fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END", column)
	}
	return fmt.Sprintf("CASE WHEN %s IS NULL THEN 0 ELSE 1 END", column)
}
