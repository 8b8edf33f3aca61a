package field

import (
	"github.com/tx7do/go-utils/stringcase"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
)

// NormalizeFieldMaskPaths 将 FieldMask 中的路径归一化为 snake_case
func NormalizeFieldMaskPaths(fm *fieldmaskpb.FieldMask) {
	if fm == nil || len(fm.GetPaths()) == 0 {
		return
	}

	fm.Normalize()

	fm.Paths = NormalizePaths(fm.Paths)
}

// NormalizePaths 将路径归一化为 snake_case，"id_" 与 "_id" 视为 "id"
func NormalizePaths(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}

	for i, p := range paths {
		if p == "id_" || p == "_id" {
			p = "id"
		}
		paths[i] = stringcase.ToSnakeCase(p)
	}

	return paths
}
