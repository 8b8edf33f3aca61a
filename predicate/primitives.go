package predicate

import (
	"strings"

	"gorm.io/gorm/clause"

	"github.com/tx7do/go-crud-member/field"
)

// HasText 非空且不全是空白字符
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TextEq f = v；空串或纯空白视为缺失
func TextEq(f field.Field, v string) Fragment {
	if !HasText(v) {
		return None[Predicate]()
	}
	return Some(Of(clause.Eq{Column: f.ClauseColumn(), Value: v}, f))
}

// TextEqPtr 同 TextEq，nil 视为缺失
func TextEqPtr(f field.Field, v *string) Fragment {
	if v == nil {
		return None[Predicate]()
	}
	return TextEq(f, *v)
}

// IntEq f = v
func IntEq(f field.Field, v *int) Fragment {
	if v == nil {
		return None[Predicate]()
	}
	return Some(Of(clause.Eq{Column: f.ClauseColumn(), Value: *v}, f))
}

// IntGoe f >= v
func IntGoe(f field.Field, v *int) Fragment {
	if v == nil {
		return None[Predicate]()
	}
	return Some(Of(clause.Gte{Column: f.ClauseColumn(), Value: *v}, f))
}

// IntLoe f <= v
func IntLoe(f field.Field, v *int) Fragment {
	if v == nil {
		return None[Predicate]()
	}
	return Some(Of(clause.Lte{Column: f.ClauseColumn(), Value: *v}, f))
}

// IntGt f > v
func IntGt(f field.Field, v *int) Fragment {
	if v == nil {
		return None[Predicate]()
	}
	return Some(Of(clause.Gt{Column: f.ClauseColumn(), Value: *v}, f))
}

// IntLt f < v
func IntLt(f field.Field, v *int) Fragment {
	if v == nil {
		return None[Predicate]()
	}
	return Some(Of(clause.Lt{Column: f.ClauseColumn(), Value: *v}, f))
}

// IntBetween goe <= f <= loe，两个边界各自独立：缺失的一侧不施加约束。
// goe > loe 时照常生成条件，查询结果为空。
func IntBetween(f field.Field, goe, loe *int) Fragment {
	lower := IntGoe(f, goe)
	upper := IntLoe(f, loe)
	if !lower.IsPresent() && !upper.IsPresent() {
		return None[Predicate]()
	}
	return Some(AllOf(lower, upper))
}

// IsNull f IS NULL
func IsNull(f field.Field) Predicate {
	return Of(clause.Eq{Column: f.ClauseColumn(), Value: nil}, f)
}
