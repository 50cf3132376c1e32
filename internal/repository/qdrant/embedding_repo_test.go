package qdrant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modaics/go-backend/internal/domain"
)

func TestSortNeighbors_DistanceThenID(t *testing.T) {
	neighbors := []domain.Neighbor{
		{ItemID: 9, Distance: 0.30},
		{ItemID: 4, Distance: 0.10},
		{ItemID: 2, Distance: 0.30},
		{ItemID: 7, Distance: 0.05},
	}

	sortNeighbors(neighbors)

	assert.Equal(t, []domain.Neighbor{
		{ItemID: 7, Distance: 0.05},
		{ItemID: 4, Distance: 0.10},
		{ItemID: 2, Distance: 0.30},
		{ItemID: 9, Distance: 0.30},
	}, neighbors)
}

func TestSortNeighbors_EqualDistancesOrderedByID(t *testing.T) {
	// При одинаковых расстояниях результат не зависит от порядка выдачи индекса.
	neighbors := []domain.Neighbor{
		{ItemID: 31, Distance: 0.22},
		{ItemID: 12, Distance: 0.22},
		{ItemID: 25, Distance: 0.22},
	}

	sortNeighbors(neighbors)

	assert.Equal(t, []int64{12, 25, 31}, []int64{
		neighbors[0].ItemID,
		neighbors[1].ItemID,
		neighbors[2].ItemID,
	})
}
