package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bistro/internal/core/entity"
	"bistro/internal/core/types"
)

type sampleDoc struct {
	entity.Document
	Total  types.Money `db:"total"`
	Lines  []string    `db:"-"`
	hidden string
}

func TestExtractDBColumns_EmbeddedInOrder(t *testing.T) {
	cols := ExtractDBColumns[sampleDoc]()

	assert.Equal(t, []string{
		"id", "deletion_mark", "version", "created_at", "updated_at",
		"number", "date", "comment",
		"total",
	}, cols)

	assert.Equal(t, cols, ExtractDBColumns[*sampleDoc]())
}

func TestColumnsExcept(t *testing.T) {
	cols := []string{"id", "number", "version", "total"}
	assert.Equal(t, []string{"number", "total"}, ColumnsExcept(cols, "id", "version"))
}

func TestStructToMap(t *testing.T) {
	doc := sampleDoc{
		Document: entity.NewDocument(),
		Total:    types.MustMoney("12.50"),
		Lines:    []string{"ignored"},
		hidden:   "ignored",
	}
	doc.Number = 42
	doc.Version = 3
	doc.Date = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	m := StructToMap(&doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, int64(42), m["number"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, doc.Date, m["date"])
	assert.True(t, types.MustMoney("12.5").Equal(m["total"].(types.Money)))
	assert.NotContains(t, m, "Lines")
	assert.Len(t, m, 9)

	assert.Nil(t, StructToMap(42))
}
