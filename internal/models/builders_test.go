package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser(UserFields{UserID: "farmer-1", Name: "Asha"}, fixedNow)

	assert.Equal(t, "farmer-1", u.UserID)
	assert.True(t, u.IsActive)
	assert.Nil(t, u.Email, "blank email is stored as NULL")
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, u.CreatedAt.Equal(fixedNow))
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	assert.Equal(t, "", u.EmailValue())
}

func TestNewUser_TrimsEmail(t *testing.T) {
	u := NewUser(UserFields{UserID: "farmer-1", Email: "  asha@example.com "}, fixedNow)
	require.NotNil(t, u.Email)
	assert.Equal(t, "asha@example.com", *u.Email)
}

func TestNewPost_Defaults(t *testing.T) {
	p := NewPost(PostFields{ID: "p1", AuthorID: "farmer-1", Content: "First rain"}, fixedNow)

	assert.Equal(t, 0, p.Likes)
	assert.Equal(t, 0, p.Comments)
	assert.NotNil(t, p.Tags)
	assert.Len(t, p.Tags, 0)
	assert.Nil(t, p.Image)
	assert.True(t, p.Timestamp.Equal(fixedNow))

	doc := p.Document()
	assert.Equal(t, []string{}, doc["tags"])
	assert.Equal(t, 0, doc["likes"])
}

func TestNewComment_DefaultUserName(t *testing.T) {
	c := NewComment(CommentFields{ID: "c1", PostID: "p1", Content: "Nice"}, fixedNow)
	assert.Equal(t, DefaultUserName, c.UserName)

	m := NewChatMessage(ChatMessageFields{ID: "m1", ChatID: "chat", UserName: "Ravi"}, fixedNow)
	assert.Equal(t, "Ravi", m.UserName)
}

func TestNewCropHealth_ResultsDocument(t *testing.T) {
	d := NewCropHealth(CropHealthFields{
		ID:     "d1",
		UserID: "farmer-1",
		Results: []Prediction{
			{Label: "Tomato___Late_blight", Confidence: 0.91},
		},
	}, fixedNow)

	doc := d.Document()
	results, ok := doc["results"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "Tomato___Late_blight", results[0]["label"])

	empty := NewCropHealth(CropHealthFields{ID: "d2"}, fixedNow)
	assert.Equal(t, []map[string]any{}, empty.Document()["results"])
}

func TestNewActivity_DateIsNow(t *testing.T) {
	a := NewActivity(ActivityFields{ID: "a1", UserID: "farmer-1", Type: "irrigation"}, fixedNow)
	assert.True(t, a.Date.Equal(fixedNow))
	assert.Equal(t, a.Date, a.Timestamp)
}

func TestBase_BeforeCreateAssignsRowID(t *testing.T) {
	like := NewPostLike("p1", "farmer-1", fixedNow)
	require.NoError(t, like.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, like.RowID)

	id := like.RowID
	require.NoError(t, like.BeforeCreate(nil))
	assert.Equal(t, id, like.RowID)
}

func TestBuilders_StampAtMicrosecondPrecision(t *testing.T) {
	now := time.Date(2024, 3, 14, 9, 30, 0, 123456789, time.FixedZone("IST", 5*3600+1800))
	want := time.Date(2024, 3, 14, 4, 0, 0, 123456000, time.UTC)

	stamps := map[string]time.Time{
		"user":     NewUser(UserFields{UserID: "farmer-1"}, now).CreatedAt,
		"post":     NewPost(PostFields{ID: "p1"}, now).Timestamp,
		"comment":  NewComment(CommentFields{ID: "c1"}, now).Timestamp,
		"activity": NewActivity(ActivityFields{ID: "a1"}, now).Date,
		"chat":     NewChatMessage(ChatMessageFields{ID: "m1"}, now).Timestamp,
		"health":   NewCropHealth(CropHealthFields{ID: "d1"}, now).Timestamp,
		"like":     NewPostLike("p1", "farmer-1", now).CreatedAt,
		"save":     NewSavedPost("p1", "farmer-1", now).CreatedAt,
	}
	for name, got := range stamps {
		assert.Equal(t, want, got, name)
		assert.Zero(t, got.Nanosecond()%1000, name)
	}
}
