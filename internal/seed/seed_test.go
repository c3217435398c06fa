package seed

import (
	"context"
	"testing"

	"farmsphere/internal/models"
	"farmsphere/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	return Options{
		NumUsers:        4,
		NumPosts:        6,
		CommentsPerPost: 2,
		LikesPerPost:    3,
		NumChats:        2,
		MessagesPerChat: 4,
		Seed:            42,
		ShouldClean:     true,
	}
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	sum, err := NewSeeder(db, 42).Run(ctx, smallOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 6, sum.Posts)
	assert.Equal(t, 12, sum.Comments)
	assert.Equal(t, 18, sum.Likes)
	assert.Equal(t, 8, sum.Messages)

	var users, comments, likes int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.PostLike{}).Count(&likes).Error)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(12), comments)
	assert.Equal(t, int64(18), likes)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 6)
	for _, p := range posts {
		assert.Equal(t, 3, p.Likes, "post %s", p.ID)
		assert.Equal(t, 2, p.Comments, "post %s", p.ID)
	}
}

func TestSeeder_CleanReplacesData(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	_, err := NewSeeder(db, 1).Run(ctx, smallOptions())
	require.NoError(t, err)
	_, err = NewSeeder(db, 2).Run(ctx, smallOptions())
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(4), users)
}

func TestSeeder_RequiresUsers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	_, err := NewSeeder(db, 1).Run(context.Background(), Options{})
	assert.Error(t, err)
}

func TestFactory_CreateUserIsValid(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := NewFactory(NewServices(db), 7)

	for i := 0; i < 10; i++ {
		u, err := f.CreateUser(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, u.UserID)
		assert.True(t, u.IsActive)
	}
}
