package field

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"gorm.io/gorm"
)

type Member struct {
	ID       uint
	Username *string
	Age      int
	TeamID   *uint
}

var (
	memberID   = New("members", "id", "memberId")
	memberAge  = New("members", "age", "age")
	teamName   = New("teams", "name", "teamName")
	memberName = New("members", "username", "username")
)

func openDryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

func sqlOf(t *testing.T, scope func(*gorm.DB) *gorm.DB) (string, []any) {
	db := openDryRunDB(t)
	var rows []map[string]any
	tx := db.Session(&gorm.Session{DryRun: true}).Model(&Member{}).Scopes(scope).Find(&rows)
	if tx.Error != nil {
		t.Fatalf("unexpected error executing dummy query: %v", tx.Error)
	}
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestNew_InvalidIdentifierPanics(t *testing.T) {
	assert.Panics(t, func() { New("members;", "id", "") })
	assert.Panics(t, func() { New("members", "id--", "") })
	assert.NotPanics(t, func() { New("members", "team_id", "") })
}

func TestField_Basics(t *testing.T) {
	assert.Equal(t, "members.id", memberID.Qualified())
	assert.Equal(t, "member_id", memberID.Alias())
	assert.Equal(t, "team_name", teamName.Alias())
	assert.Equal(t, "id", New("teams", "id", "").Name)
	assert.True(t, Field{}.IsZero())
	assert.Equal(t, []string{"members", "teams"}, Tables(memberID, teamName, memberAge, Field{}))
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(memberID, memberName, memberAge, teamName)

	for _, name := range []string{"teamName", "team_name", " TeamName "} {
		f, ok := r.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, teamName, f)
	}

	_, ok := r.Lookup("password")
	assert.False(t, ok)

	var nilRegistry *Registry
	_, ok = nilRegistry.Lookup("age")
	assert.False(t, ok)
	assert.Len(t, r.Fields(), 4)
}

func TestSelector_BuildSelector_Empty(t *testing.T) {
	fs := NewFieldSelector()
	sel, err := fs.BuildSelector(nil)
	assert.NoError(t, err)
	assert.Nil(t, sel)
}

func TestSelector_BuildSelector_Aliases(t *testing.T) {
	fs := NewFieldSelector()
	sel, err := fs.BuildSelector([]Selection{
		Col(memberID),
		As(memberName, "name"),
		Col(teamName),
	})
	assert.NoError(t, err)

	sql, _ := sqlOf(t, sel)
	assert.Contains(t, sql, "members.id AS member_id")
	assert.Contains(t, sql, "members.username AS name")
	assert.Contains(t, sql, "teams.name AS team_name")
}

func TestSelector_BuildSelector_SubQuery(t *testing.T) {
	db := openDryRunDB(t)
	sub := db.Session(&gorm.Session{DryRun: true}).Table("members AS member_sub").Select("MAX(member_sub.age)")

	fs := NewFieldSelector()
	sel, err := fs.BuildSelector([]Selection{
		As(memberName, "name"),
		Expr("(?)", "age", []any{sub}),
	})
	assert.NoError(t, err)

	sql, _ := sqlOf(t, sel)
	up := strings.ToUpper(sql)
	assert.Contains(t, up, "(SELECT MAX(MEMBER_SUB.AGE) FROM MEMBERS AS MEMBER_SUB) AS AGE")
}

func TestSelector_BuildColumnSelect(t *testing.T) {
	fs := NewFieldSelector()
	sql, _ := sqlOf(t, func(db *gorm.DB) *gorm.DB {
		return fs.BuildColumnSelect(db, []string{"userName", "age", "bad;column"})
	})
	assert.Contains(t, sql, "user_name")
	assert.Contains(t, sql, "age")
	assert.NotContains(t, sql, "bad;column")
}

func TestSelection_RefsAndAliases(t *testing.T) {
	sels := []Selection{Col(memberID), As(teamName, "tn"), Expr("COUNT(*)", "cnt", nil)}
	assert.Equal(t, []string{"member_id", "tn", "cnt"}, Aliases(sels))
	assert.Equal(t, []Field{memberID, teamName}, Refs(sels))
	assert.Equal(t, "COUNT(*) AS cnt", sels[2].SQL())
}

func TestNormalizeFieldMaskPaths(t *testing.T) {
	fm := &fieldmaskpb.FieldMask{Paths: []string{"userName", "id_", "teamId"}}
	NormalizeFieldMaskPaths(fm)
	assert.ElementsMatch(t, []string{"user_name", "id", "team_id"}, fm.GetPaths())

	NormalizeFieldMaskPaths(nil)
	assert.Empty(t, NormalizePaths(nil))
}
