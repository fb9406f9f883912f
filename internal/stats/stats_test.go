// Tiendat | 2026
// stats_test.go

package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	counts Counts
}

func (f *fakeRepo) Counts(_ context.Context, _ string) (*Counts, error) {
	c := f.counts
	return &c, nil
}

func TestOverview(t *testing.T) {
	t.Run("empty keepsake", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		o, err := svc.Overview(context.Background(), "user_1_1")
		require.NoError(t, err)

		assert.Equal(t, 0, o.Images.Count)
		assert.Equal(t, 20, o.Images.PositionsFree)
		assert.False(t, o.Video.Exists)
		assert.Equal(t, 0, o.Summary.TotalItems)
		assert.Equal(t, int64(0), o.Summary.StorageBytes)
	})

	t.Run("full keepsake sums items", func(t *testing.T) {
		svc := NewService(&fakeRepo{counts: Counts{
			Images:        12,
			PositionsUsed: 8,
			HasVideo:      true,
			HasVoice:      true,
			HasPost:       true,
			Beneficiaries: 2,
			MediaBytes:    123456,
		}})

		o, err := svc.Overview(context.Background(), "user_1_1")
		require.NoError(t, err)

		assert.Equal(t, 12, o.Images.Count)
		assert.Equal(t, 8, o.Images.PositionsUsed)
		assert.Equal(t, 12, o.Images.PositionsFree)
		assert.True(t, o.Video.Exists)
		assert.True(t, o.Voice.Exists)
		assert.True(t, o.Post.Exists)
		assert.Equal(t, 2, o.Beneficiaries.Count)
		// 12 images + 2 beneficiaries + video + voice + post
		assert.Equal(t, 17, o.Summary.TotalItems)
		assert.Equal(t, int64(123456), o.Summary.StorageBytes)
	})
}
