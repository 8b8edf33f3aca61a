package sorting

import (
	"encoding/json"
	"strings"

	"go.einride.tech/aip/ordering"

	"github.com/tx7do/go-crud-member/field"
)

// OrderByStringConverter 把 HTTP 层的 orderBy 参数转换为排序键
type OrderByStringConverter struct {
	queryString *QueryStringSorting
}

func NewOrderByStringConverter(registry *field.Registry) *OrderByStringConverter {
	return &OrderByStringConverter{
		queryString: NewQueryStringSorting(registry),
	}
}

// Convert 将排序字符串转换为排序键列表
func (obc OrderByStringConverter) Convert(orderBy string) ([]Order, error) {
	orderBy = strings.TrimSpace(orderBy)
	if len(orderBy) == 0 {
		return nil, nil
	}

	if strings.HasPrefix(orderBy, "[") && strings.HasSuffix(orderBy, "]") {
		// JSON 格式
		return obc.ParseJsonString(orderBy)
	}

	// AIP 格式
	return obc.ParseAIPString(orderBy)
}

// ParseJsonString 解析 JSON 格式的排序字符串，例如 ["-age","username"]
func (obc OrderByStringConverter) ParseJsonString(orderByJson string) ([]Order, error) {
	if len(orderByJson) == 0 {
		return nil, nil
	}

	var strSlice []string
	if err := json.Unmarshal([]byte(orderByJson), &strSlice); err != nil {
		return nil, err
	}

	return obc.queryString.Parse(strSlice)
}

// ParseAIPString 解析 AIP 格式的排序字符串，例如 "age desc, username"
func (obc OrderByStringConverter) ParseAIPString(orderByString string) ([]Order, error) {
	if len(orderByString) == 0 {
		return nil, nil
	}

	var actual ordering.OrderBy
	if err := actual.UnmarshalString(orderByString); err != nil {
		return nil, err
	}

	var orders []Order
	for _, item := range actual.Fields {
		o, err := obc.queryString.resolve(item.Path, item.Desc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
