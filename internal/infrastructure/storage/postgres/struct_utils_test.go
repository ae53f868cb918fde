package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cuentas/internal/core/entity"
	"cuentas/internal/core/id"
)

type fakeCatalogRow struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[fakeCatalogRow]()

	for _, want := range []string{"id", "deletion_mark", "version", "code", "name"} {
		assert.Contains(t, cols, want)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	row := fakeCatalogRow{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "VES",
		Name: "Bolívar",
	}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "VES", m["code"])
	assert.Equal(t, "Bolívar", m["name"])
}

func TestStructToMap_SkipsIgnoredFields(t *testing.T) {
	type withIgnored struct {
		Code  string   `db:"code"`
		Lines []string `db:"-"`
	}

	m := StructToMap(withIgnored{Code: "X", Lines: []string{"a"}})

	assert.Equal(t, "X", m["code"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 1)
}
